package arena

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1: handshake.
func TestHandshake(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	w := newTestWorld(testSettings())
	conns := NewConnManager()

	done := make(chan struct{})
	var conn *Conn
	var reader *bufio.Reader
	var herr error
	go func() {
		conn, reader, herr = Handshake(server, w, conns)
		close(done)
	}()

	_, err := client.Write([]byte("alice\n"))
	require.NoError(t, err)

	clientReader := bufio.NewReader(client)

	idLine, err := clientReader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "1\n", idLine)

	sizeLine, err := clientReader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "2000\n", sizeLine)

	<-done
	require.NoError(t, herr)
	require.NotNil(t, conn)
	assert.Equal(t, 1, conn.snakeID)
	assert.Equal(t, "alice", conn.name)
	_ = reader

	w.Lock()
	s, ok := w.Snakes[1]
	w.Unlock()
	require.True(t, ok)
	assert.Equal(t, "alice", s.RealName)
}

func TestHandleClientLineIgnoresMalformed(t *testing.T) {
	w := newTestWorld(testSettings())
	s := w.AddSnake("alice")
	s.place([]Vector2D{{X: 0, Y: 0}, {X: 0, Y: 120}})
	s.Dir, s.PrevDir = DirRight, DirRight

	c := &Conn{snakeID: s.ID}

	handleClientLine(c, w, "not json\n")
	assert.False(t, s.hasPending)

	handleClientLine(c, w, `{"moving":"up"}`+"\n")
	assert.True(t, s.hasPending)
	assert.Equal(t, DirUp, s.pendingDir)
}

func TestClientMovingToVector(t *testing.T) {
	cases := []struct {
		Moving   ClientMoving
		Expected Vector2D
		Ok       bool
	}{
		{MovingUp, DirUp, true},
		{MovingDown, DirDown, true},
		{MovingLeft, DirLeft, true},
		{MovingRight, DirRight, true},
		{MovingNone, Vector2D{}, false},
		{ClientMoving("sideways"), Vector2D{}, false},
	}
	for _, c := range cases {
		got, ok := c.Moving.toVector()
		assert.Equal(t, c.Ok, ok)
		if ok {
			assert.Equal(t, c.Expected, got)
		}
	}
}

func TestConnWriteAfterCloseIsNoop(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	go func() {
		buf := make([]byte, 64)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	c := newConn(server)
	c.Close()

	err := c.Write([]byte("hi\n"))
	assert.NoError(t, err)
}

func TestReadLoopOptInLeaderboard(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	w := newTestWorld(testSettings())
	conns := NewConnManager()

	var conn *Conn
	done := make(chan struct{})
	go func() {
		c, reader, err := Handshake(server, w, conns)
		require.NoError(t, err)
		conn = c
		ReadLoop(c, reader, w, conns)
		close(done)
	}()

	_, err := client.Write([]byte("alice\n"))
	require.NoError(t, err)

	clientReader := bufio.NewReader(client)
	_, err = clientReader.ReadString('\n') // snake ID
	require.NoError(t, err)
	_, err = clientReader.ReadString('\n') // universe size
	require.NoError(t, err)

	_, err = client.Write([]byte("lb\n"))
	require.NoError(t, err)

	client.Close()
	<-done

	require.NotNil(t, conn)
	assert.True(t, conn.WantsLeaderboard())
}

func TestReadLoopFirstLineNotOptInIsHandledNormally(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	w := newTestWorld(testSettings())
	conns := NewConnManager()

	var conn *Conn
	done := make(chan struct{})
	go func() {
		c, reader, err := Handshake(server, w, conns)
		require.NoError(t, err)
		conn = c
		ReadLoop(c, reader, w, conns)
		close(done)
	}()

	_, err := client.Write([]byte("alice\n"))
	require.NoError(t, err)

	clientReader := bufio.NewReader(client)
	_, err = clientReader.ReadString('\n')
	require.NoError(t, err)
	_, err = clientReader.ReadString('\n')
	require.NoError(t, err)

	_, err = client.Write([]byte(`{"moving":"up"}` + "\n"))
	require.NoError(t, err)

	client.Close()
	<-done

	require.NotNil(t, conn)
	assert.False(t, conn.WantsLeaderboard())
}

func TestEncodeWallsLineFormat(t *testing.T) {
	settings := testSettings()
	settings.Walls = []WallConfig{{ID: 1, P1: WallEndpoint{X: 0, Y: 0}, P2: WallEndpoint{X: 0, Y: 100}}}
	w := newTestWorld(settings)

	payload, err := w.EncodeWalls()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"wall":1`)
}
