package connection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	model_snmp "network-rrd/models/snmp"

	g "github.com/gosnmp/gosnmp"
)

// Session is the part of the SNMP engine the pollers need. *gosnmp.GoSNMP
// satisfies it, as does the in-process agent in pkg/system.
type Session interface {
	Get(oids []string) (*g.SnmpPacket, error)
	GetNext(oids []string) (*g.SnmpPacket, error)
}

// Dialer opens a ready-to-use session.
type Dialer func() (Session, error)

// NewSNMP builds an unconnected gosnmp client for conn. Retries stay at zero:
// the first failure of any request is final.
func NewSNMP(conn model_snmp.SNMPConnectionConfig, debug *log.Logger) *g.GoSNMP {
	params := &g.GoSNMP{
		Target:    conn.Hostname,
		Port:      uint16(conn.Port),
		Community: conn.Community,
		Version:   model_snmp.GetSNMPVersion(conn.Version),
		Timeout:   conn.Timeout,
		Retries:   0,
		Transport: "udp",
	}
	if debug != nil {
		params.Logger = g.NewLogger(debug)
	}
	return params
}

// Connect returns a connected gosnmp client for conn.
func Connect(conn model_snmp.SNMPConnectionConfig, debug *log.Logger) (*g.GoSNMP, error) {
	params := NewSNMP(conn, debug)
	if err := params.Connect(); err != nil {
		return nil, &TransportError{Op: "connect", Err: fmt.Errorf("connect to %s:%d: %w", conn.Hostname, conn.Port, err)}
	}
	return params, nil
}

// SNMPSession is a connected gosnmp client the pool can close.
type SNMPSession struct {
	*g.GoSNMP
}

func (s SNMPSession) Close() error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Close()
}

// SNMPDialer returns a Dialer that connects a fresh gosnmp client for every call.
func SNMPDialer(conn model_snmp.SNMPConnectionConfig, debug *log.Logger) Dialer {
	return func() (Session, error) {
		params, err := Connect(conn, debug)
		if err != nil {
			return nil, err
		}
		return SNMPSession{params}, nil
	}
}

var ErrPoolClosed = errors.New("snmp connection pool closed")

// SNMPConnectionPool hands out one session per concurrent worker. gosnmp
// clients must not be shared between goroutines.
type SNMPConnectionPool struct {
	conns  chan Session
	all    []Session
	mutex  sync.Mutex
	closed bool
}

func NewSNMPConnectionPool(size int, dial Dialer) (*SNMPConnectionPool, error) {
	if size < 1 {
		size = 1
	}
	p := &SNMPConnectionPool{conns: make(chan Session, size)}
	for i := 0; i < size; i++ {
		s, err := dial()
		if err != nil {
			p.Close()
			return nil, err
		}
		p.all = append(p.all, s)
		p.conns <- s
	}
	return p, nil
}

func (p *SNMPConnectionPool) GetConnection(ctx context.Context) (Session, error) {
	p.mutex.Lock()
	closed := p.closed
	p.mutex.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case s := <-p.conns:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *SNMPConnectionPool) ReleaseConnection(s Session) {
	p.conns <- s
}

func (p *SNMPConnectionPool) Size() int {
	return len(p.all)
}

// Close closes every session the pool created.
func (p *SNMPConnectionPool) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, s := range p.all {
		if c, ok := s.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}
