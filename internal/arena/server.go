package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

// Server owns everything needed to run one arena: the World, the
// connection manager, and the admin address that feeds them. It holds
// no package-level state — every dependency is constructed and
// injected at NewServer, so multiple Servers can run side by side in
// tests.
type Server struct {
	World *World
	Conns *ConnManager

	AdminAddr string // empty disables the admin HTTP surface
}

// NewServer builds a Server from loaded settings. rng seeds the
// World's respawn/placement randomness.
func NewServer(settings Settings, adminAddr string, rng *rand.Rand) *Server {
	return &Server{
		World:     NewWorld(settings, rng),
		Conns:     NewConnManager(),
		AdminAddr: adminAddr,
	}
}

// Run accepts connections on the given, already-bound listener, drives
// the fixed-tick loop, and (if configured) serves the admin HTTP
// surface, blocking until ctx is cancelled or any of them fails. The
// caller owns opening (and, via ctx cancellation, implicitly closing)
// the listener, so a test can bind an ephemeral port and a deployment
// can hand in a socket-activated one. Uses errgroup so a failure in
// any one of the three brings the others down cleanly instead of
// leaking goroutines.
func (s *Server) Run(ctx context.Context, listener net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})

	g.Go(func() error {
		return s.acceptLoop(ctx, listener)
	})

	g.Go(func() error {
		return s.tickLoop(ctx)
	})

	if s.AdminAddr != "" {
		admin := &http.Server{Addr: s.AdminAddr, Handler: s.adminRouter()}
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return admin.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			slog.Info("admin http listening", "addr", s.AdminAddr)
			if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("admin http: %w", err)
			}
			return nil
		})
	}

	slog.Info("arena listening", "addr", listener.Addr())
	return g.Wait()
}

// acceptLoop accepts connections until ctx is cancelled, handing each
// one its own reader goroutine; the writer side is just the per-tick
// broadcast.
func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) error {
	for {
		raw, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		go s.handleConn(raw)
	}
}

func (s *Server) handleConn(raw net.Conn) {
	c, reader, err := Handshake(raw, s.World, s.Conns)
	if err != nil {
		slog.Warn("handshake failed", "remote", raw.RemoteAddr(), "err", err)
		raw.Close()
		return
	}
	slog.Info("snake joined", "snake", c.snakeID, "name", c.name, "remote", raw.RemoteAddr())
	ReadLoop(c, reader, s.World, s.Conns)
	slog.Info("snake disconnected", "snake", c.snakeID, "name", c.name, "remote", raw.RemoteAddr())
}

// tickLoop drives the Simulation Step at a fixed rate and broadcasts
// the resulting frame to every connected client. The tick itself never
// awaits network I/O: Tick returns a fully-encoded Frame in memory,
// and the broadcast writes happen after the World lock is released.
// A panic inside Tick is recovered and logged, and that tick's
// broadcast is skipped.
func (s *Server) tickLoop(ctx context.Context) error {
	ms := s.World.Settings.MSPerFrame
	if ms <= 0 {
		ms = 16
	}
	ticker := time.NewTicker(time.Duration(ms) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			var frame Frame
			panicked := func() (failed bool) {
				defer func() {
					if r := recover(); r != nil {
						slog.Error("tick panicked", "panic", r)
						failed = true
					}
				}()
				frame = s.World.Tick()
				return false
			}()
			if panicked {
				continue
			}
			payload, err := frame.EncodeLines()
			if err != nil {
				slog.Error("frame encode failed", "err", err)
				continue
			}
			s.Conns.Broadcast(payload)
			s.broadcastLeaderboard()
		}
	}
}

// leaderboardSize is the top-N cutoff shared by the TCP opt-in line
// and the admin HTTP snapshot.
const leaderboardSize = 10

// broadcastLeaderboard sends the opt-in leaderboard line to every
// connection that requested it at handshake time, skipping the work
// entirely when nobody asked for it.
func (s *Server) broadcastLeaderboard() {
	var subscribers []*Conn
	for _, c := range s.Conns.Snapshot() {
		if c.WantsLeaderboard() {
			subscribers = append(subscribers, c)
		}
	}
	if len(subscribers) == 0 {
		return
	}

	payload, err := EncodeLeaderboardLine(s.World.Leaderboard(leaderboardSize))
	if err != nil {
		slog.Error("leaderboard encode failed", "err", err)
		return
	}
	for _, c := range subscribers {
		if err := c.Write(payload); err != nil {
			slog.Debug("leaderboard write failed", "conn", c.id, "err", err)
		}
	}
}

// adminRouter builds the optional observability surface: a liveness
// probe and a read-only leaderboard snapshot. Neither is part of the
// wire protocol proper — both are ambient operational tooling.
func (s *Server) adminRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/debug/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries := s.World.Leaderboard(leaderboardSize)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		slog.Error("leaderboard encode failed", "err", err)
	}
}
