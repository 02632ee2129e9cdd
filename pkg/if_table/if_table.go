// Package if_table discovers the interfaces of a device by walking the ifDescr
// column with GETNEXT until the agent answers from the next column.
package if_table

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"network-rrd/connection"
	model_snmp "network-rrd/models/snmp"
	"network-rrd/pkg/oids"

	g "github.com/gosnmp/gosnmp"
	"go.uber.org/zap"
)

var (
	ErrEmptyResponse = errors.New("getnext response carried no variable bindings")
	ErrNotIncreasing = errors.New("agent returned a non-increasing OID")
)

type Entry struct {
	Oid   string `json:"oid"`
	Value string `json:"value"`
}

// Table maps OIDs to values and remembers the order they were discovered in.
type Table struct {
	entries []Entry
	index   map[string]int
}

func NewTable() *Table {
	return &Table{index: map[string]int{}}
}

// Set adds oid, or overwrites its value in place when already present.
func (t *Table) Set(oid, value string) {
	if i, ok := t.index[oid]; ok {
		t.entries[i].Value = value
		return
	}
	t.index[oid] = len(t.entries)
	t.entries = append(t.entries, Entry{Oid: oid, Value: value})
}

func (t *Table) Get(oid string) (string, bool) {
	i, ok := t.index[oid]
	if !ok {
		return "", false
	}
	return t.entries[i].Value, true
}

func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Indices returns the interface index of every entry, in discovery order.
func (t *Table) Indices() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, oids.ExtractIndex(e.Oid))
	}
	return out
}

type ITCollector struct {
	Connection connection.Session
	Begin      string
	End        string
	logger     *zap.Logger
}

func NewITCollector(conn connection.Session, logger *zap.Logger) *ITCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ITCollector{
		Connection: conn,
		Begin:      oids.InterfaceListBegin,
		End:        oids.InterfaceListEnd,
		logger:     logger,
	}
}

// Walk chains GETNEXT requests from Begin. It stops at the first binding whose
// OID contains End (that binding is dropped) or at endOfMibView. Any error
// discards everything collected so far.
func (c *ITCollector) Walk(ctx context.Context) (*Table, error) {
	table := NewTable()
	current := c.Begin

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		requested := []string{current}
		result, err := c.Connection.GetNext(requested)
		if err := connection.CheckResult("getnext", requested, result, err); err != nil {
			return nil, err
		}
		if len(result.Variables) == 0 {
			return nil, &connection.TransportError{Op: "getnext", Err: ErrEmptyResponse}
		}

		for _, variable := range result.Variables {
			if variable.Type == g.EndOfMibView {
				c.logger.Debug("walk reached end of mib view", zap.Int("interfaces", table.Len()))
				return table, nil
			}

			oid, value := model_snmp.GetSNMPValue(variable)
			if strings.Contains(oid, c.End) {
				c.logger.Debug("walk crossed column boundary",
					zap.String("oid", oid),
					zap.Int("interfaces", table.Len()),
				)
				return table, nil
			}
			if oids.Compare(oid, current) <= 0 {
				return nil, fmt.Errorf("%w: %s after %s", ErrNotIncreasing, oid, current)
			}

			table.Set(oid, value)
			current = oid
		}
	}
}
