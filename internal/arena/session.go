package arena

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxLineLength is the buffer size of each connection's buffered
// reader. ReadString still accumulates a line across buffer fills, so
// it does not cap the length of a client-to-server line.
const maxLineLength = 4096

// Conn wraps one accepted TCP connection. Its ID is an internal,
// never-wire-visible identifier — the wire-visible client identifier
// is always the decimal snake ID; this one exists purely so the
// connection manager has a stable map key independent of the snake
// lifecycle.
type Conn struct {
	id      string
	snakeID int
	name    string

	raw              net.Conn
	writer           *bufio.Writer
	mu               sync.Mutex
	closed           bool
	wantsLeaderboard bool
}

// WantsLeaderboard reports whether this client opted into the
// leaderboard broadcast line by sending "lb" as its first
// post-handshake line.
func (c *Conn) WantsLeaderboard() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wantsLeaderboard
}

func newConn(raw net.Conn) *Conn {
	return &Conn{
		id:     uuid.New().String(),
		raw:    raw,
		writer: bufio.NewWriter(raw),
	}
}

// Write sends a pre-encoded line-delimited payload. Safe for
// concurrent use; a write after Close is a silent no-op.
func (c *Conn) Write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if _, err := c.writer.Write(payload); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close marks the connection closed and releases the socket.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.raw.Close()
}

// ConnManager tracks every live connection, keyed by internal ID.
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

func (m *ConnManager) add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.id] = c
}

func (m *ConnManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections.
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns every live connection, for per-tick broadcast.
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		out = append(out, c)
	}
	return out
}

// Broadcast writes the same payload to every connection, logging and
// dropping (rather than failing the tick) any connection whose write
// fails — a dead socket is cleaned up by its own ReadLoop goroutine.
func (m *ConnManager) Broadcast(payload []byte) {
	for _, c := range m.Snapshot() {
		if err := c.Write(payload); err != nil {
			slog.Debug("broadcast write failed", "conn", c.id, "err", err)
		}
	}
}

// handshakeTimeout bounds how long a newly accepted connection has to
// send its name line before the server gives up on it.
const handshakeTimeout = 10 * time.Second

// Handshake performs the connection's accept sequence: read the
// client's name line, register a snake, and reply with the client ID,
// universe size, and the wall list — each as its own line.
func Handshake(raw net.Conn, world *World, conns *ConnManager) (*Conn, *bufio.Reader, error) {
	reader := bufio.NewReaderSize(raw, maxLineLength)

	raw.SetReadDeadline(time.Now().Add(handshakeTimeout))
	nameLine, err := reader.ReadString('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("read name line: %w", err)
	}
	raw.SetReadDeadline(time.Time{})

	name := strings.TrimSpace(nameLine)
	if name == "" {
		name = "Player"
	}

	c := newConn(raw)
	c.name = name
	c.snakeID = world.Join(name)
	conns.add(c)

	if err := sendHandshakeReply(c, world); err != nil {
		conns.remove(c.id)
		c.Close()
		return nil, nil, fmt.Errorf("send handshake reply: %w", err)
	}

	return c, reader, nil
}

func sendHandshakeReply(c *Conn, world *World) error {
	universeSize := world.UniverseSize()

	var buf strings.Builder
	buf.WriteString(strconv.Itoa(c.snakeID))
	buf.WriteByte('\n')
	buf.WriteString(strconv.Itoa(universeSize))
	buf.WriteByte('\n')
	if err := c.Write([]byte(buf.String())); err != nil {
		return err
	}

	walls, err := world.EncodeWalls()
	if err != nil {
		return err
	}
	return c.Write(walls)
}

// ReadLoop parses newline-delimited client messages until the
// connection errors or closes, applying each recognized direction
// command to the snake and ignoring anything malformed or unknown. It
// returns when the connection is done, after removing the connection
// from conns, marking the snake disconnected, and closing the socket.
func ReadLoop(c *Conn, reader *bufio.Reader, world *World, conns *ConnManager) {
	defer func() {
		conns.remove(c.id)
		world.Disconnect(c.snakeID)
		c.Close()
	}()

	first := true
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if first && strings.TrimSpace(line) == "lb" {
				c.mu.Lock()
				c.wantsLeaderboard = true
				c.mu.Unlock()
			} else {
				handleClientLine(c, world, line)
			}
		}
		first = false
		if err != nil {
			return
		}
	}
}

func handleClientLine(c *Conn, world *World, line string) {
	var msg ClientMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		slog.Debug("malformed client line ignored", "conn", c.id, "err", err)
		return
	}
	vec, ok := msg.Moving.toVector()
	if !ok {
		return
	}
	world.ApplyDirection(c.snakeID, vec)
}
