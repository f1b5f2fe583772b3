package collectd

import (
	"context"
	"net"
	"sync"

	"collectd.org/api"
	"collectd.org/network"
)

// udpSender buffers value lists into collectd network packets and writes
// them to a UDP socket.  Empty buffers are never sent, and Close always
// releases the socket, even when the final flush fails.
type udpSender struct {
	lock    sync.Mutex
	conn    net.Conn
	buffer  *network.Buffer
	pending bool
}

var _ Sender = &udpSender{}

func dialUDP(address string, level SecurityLevel, username, password string) (*udpSender, error) {
	conn, err := net.Dial("udp", address)
	if err != nil {
		return nil, err
	}

	buffer := network.NewBuffer(network.DefaultBufferSize)
	switch level {
	case Sign:
		buffer.Sign(username, password)
	case Encrypt:
		buffer.Encrypt(username, password)
	}

	return &udpSender{
		conn:   conn,
		buffer: buffer,
	}, nil
}

func (s *udpSender) Write(ctx context.Context, vl *api.ValueList) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := s.buffer.Write(ctx, vl)
	if err == network.ErrNotEnoughSpace {
		if err := s.flush(); err != nil {
			return err
		}
		err = s.buffer.Write(ctx, vl)
	}
	if err != nil {
		return err
	}
	s.pending = true
	return nil
}

// Flush sends the buffered value lists, if there are any
func (s *udpSender) Flush() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.flush()
}

func (s *udpSender) flush() error {
	if !s.pending {
		return nil
	}
	s.pending = false
	_, err := s.buffer.WriteTo(s.conn)
	return err
}

func (s *udpSender) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	flushErr := s.flush()
	if err := s.conn.Close(); err != nil {
		return err
	}
	return flushErr
}
