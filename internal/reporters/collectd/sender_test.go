package collectd

import (
	"context"
	"errors"
	"io/ioutil"
	"net"
	"testing"
	"time"

	"collectd.org/api"
	"collectd.org/network"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	net.Conn
	writes   [][]byte
	writeErr error
	closed   bool
}

func (c *fakeConn) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.writes = append(c.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func testValueList() *api.ValueList {
	return &api.ValueList{
		Identifier: api.Identifier{Host: "app01", Plugin: "requests", Type: "gauge", TypeInstance: "count"},
		Time:       time.Unix(1600000000, 0),
		Interval:   10 * time.Second,
		Values:     []api.Value{api.Gauge(1)},
	}
}

func TestUDPSender(t *testing.T) {
	t.Run("Empty buffers are not sent", func(t *testing.T) {
		conn := &fakeConn{}
		s := &udpSender{conn: conn, buffer: network.NewBuffer(network.DefaultBufferSize)}

		require.NoError(t, s.Flush())
		require.NoError(t, s.Close())
		assert.Empty(t, conn.writes)
		assert.True(t, conn.closed)
	})

	t.Run("Buffered values are flushed once", func(t *testing.T) {
		conn := &fakeConn{}
		s := &udpSender{conn: conn, buffer: network.NewBuffer(network.DefaultBufferSize)}

		require.NoError(t, s.Write(context.Background(), testValueList()))
		require.NoError(t, s.Flush())
		require.NoError(t, s.Flush())
		require.NoError(t, s.Close())
		require.Len(t, conn.writes, 1)
		assert.NotEmpty(t, conn.writes[0])
	})

	t.Run("Close releases the socket when the flush fails", func(t *testing.T) {
		conn := &fakeConn{writeErr: errors.New("connection refused")}
		s := &udpSender{conn: conn, buffer: network.NewBuffer(network.DefaultBufferSize)}

		require.NoError(t, s.Write(context.Background(), testValueList()))
		err := s.Close()
		require.Error(t, err)
		assert.True(t, conn.closed)
	})
}

func TestNoDatagramsForEmptyRegistry(t *testing.T) {
	for _, level := range []SecurityLevel{None, Encrypt} {
		level := level
		t.Run(level.String(), func(t *testing.T) {
			conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
			require.NoError(t, err)
			defer conn.Close()

			c := &Config{
				Host:          "127.0.0.1",
				Port:          conn.LocalAddr().(*net.UDPAddr).Port,
				LocalHost:     "app01",
				SecurityLevel: level,
				Username:      "test",
				Password:      "shared-secret",
			}
			r, err := c.Build(metrics.NewRegistry())
			require.NoError(t, err)

			r.Report()
			r.Report()
			r.Stop()

			require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
			buf := make([]byte, 2048)
			n, _, err := conn.ReadFrom(buf)
			require.Error(t, err, "received a %d byte datagram", n)
			var netErr net.Error
			require.True(t, errors.As(err, &netErr))
			assert.True(t, netErr.Timeout())
		})
	}
}

func openFDs(t *testing.T) int {
	fds, err := ioutil.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("open file descriptors cannot be counted on this system")
	}
	return len(fds)
}

func TestStopReleasesSocket(t *testing.T) {
	// Nothing listens on the port once it is closed, so writes get refused
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())

	registry := metrics.NewRegistry()
	metrics.GetOrRegisterCounter("requests", registry).Inc(1)

	c := &Config{Host: "127.0.0.1", Port: port, LocalHost: "app01"}

	before := openFDs(t)
	for i := 0; i < 20; i++ {
		r, err := c.Build(registry)
		require.NoError(t, err)
		r.Report()
		r.Report()
		r.Stop()
	}
	after := openFDs(t)

	assert.LessOrEqual(t, after, before+2, "sockets leaked across build and stop")
}
