// Package connectiontest provides simulated agents for tests.
package connectiontest

import (
	"strconv"
	"sync"

	"network-rrd/connection"
	"network-rrd/pkg/mib"
	"network-rrd/pkg/oids"

	g "github.com/gosnmp/gosnmp"
)

// Row is one interface of a simulated ifTable.
type Row struct {
	Index int
	Descr string
	In    uint
	Out   uint
}

// NewIfTable returns a v2c view holding ifDescr, ifType, ifInOctets and
// ifOutOctets for rows.
func NewIfTable(rows ...Row) *mib.View {
	v := mib.NewView(g.Version2c)
	for _, r := range rows {
		idx := strconv.Itoa(r.Index)
		v.Set(oids.Columns[oids.IfDescr]+"."+idx, g.OctetString, []byte(r.Descr))
		v.Set(oids.Columns[oids.IfType]+"."+idx, g.Integer, 6)
		v.Set(oids.Columns[oids.IfInOctets]+"."+idx, g.Counter32, r.In)
		v.Set(oids.Columns[oids.IfOutOctets]+"."+idx, g.Counter32, r.Out)
	}
	return v
}

type Call struct {
	Op   string
	Oids []string
}

// Fault decides the outcome of the n-th call (1-based). Returning a nil packet
// and a nil error lets the backend answer.
type Fault func(n int, op string, requested []string) (*g.SnmpPacket, error)

// Session records every request and forwards it to Backend unless Fault
// answers first. It is safe for concurrent use.
type Session struct {
	Backend connection.Session
	Fault   Fault

	mu    sync.Mutex
	calls []Call
}

func NewSession(backend connection.Session) *Session {
	return &Session{Backend: backend}
}

func (s *Session) Get(requested []string) (*g.SnmpPacket, error) {
	return s.do("get", requested, s.Backend.Get)
}

func (s *Session) GetNext(requested []string) (*g.SnmpPacket, error) {
	return s.do("getnext", requested, s.Backend.GetNext)
}

func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Session) do(op string, requested []string, next func([]string) (*g.SnmpPacket, error)) (*g.SnmpPacket, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Op: op, Oids: append([]string(nil), requested...)})
	n := len(s.calls)
	fault := s.Fault
	s.mu.Unlock()

	if fault != nil {
		if result, err := fault(n, op, requested); result != nil || err != nil {
			return result, err
		}
	}
	return next(requested)
}

// StatusAt returns a Fault answering requests for oid with status.
func StatusAt(oid string, status g.SNMPError) Fault {
	return func(_ int, _ string, requested []string) (*g.SnmpPacket, error) {
		for i, r := range requested {
			if r == oid {
				return &g.SnmpPacket{
					Error:      status,
					ErrorIndex: uint8(i + 1),
					Variables:  []g.SnmpPDU{{Name: "." + oid, Type: g.Null}},
				}, nil
			}
		}
		return nil, nil
	}
}

// ErrorOnCall returns a Fault failing the n-th call with err.
func ErrorOnCall(n int, err error) Fault {
	return func(call int, _ string, _ []string) (*g.SnmpPacket, error) {
		if call == n {
			return nil, err
		}
		return nil, nil
	}
}
