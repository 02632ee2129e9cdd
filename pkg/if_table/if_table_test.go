package if_table

import (
	"context"
	"errors"
	"testing"

	"network-rrd/connection"
	"network-rrd/connection/connectiontest"
	"network-rrd/pkg/mib"

	g "github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWalk(t *testing.T) {
	agent := connectiontest.NewSession(connectiontest.NewIfTable(
		connectiontest.Row{Index: 1, Descr: "eth0", In: 100, Out: 200},
		connectiontest.Row{Index: 2, Descr: "eth1", In: 300, Out: 400},
		connectiontest.Row{Index: 10, Descr: "lo", In: 5, Out: 5},
	))

	table, err := NewITCollector(agent, zaptest.NewLogger(t)).Walk(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []Entry{
		{Oid: "1.3.6.1.2.1.2.2.1.2.1", Value: "eth0"},
		{Oid: "1.3.6.1.2.1.2.2.1.2.2", Value: "eth1"},
		{Oid: "1.3.6.1.2.1.2.2.1.2.10", Value: "lo"},
	}, table.Entries())
	assert.Equal(t, []string{"1", "2", "10"}, table.Indices())

	_, ok := table.Get("1.3.6.1.2.1.2.2.1.3.1")
	assert.False(t, ok, "boundary entry must be dropped")

	// three rows plus the boundary response
	calls := agent.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "getnext", calls[0].Op)
	assert.Equal(t, []string{"1.3.6.1.2.1.2.2.1.2"}, calls[0].Oids)
	assert.Equal(t, []string{"1.3.6.1.2.1.2.2.1.2.10"}, calls[3].Oids)
}

func TestWalk_NoInterfaces(t *testing.T) {
	view := mib.NewView(g.Version2c)
	view.Set("1.3.6.1.2.1.2.2.1.3.1", g.Integer, 6)
	agent := connectiontest.NewSession(view)

	table, err := NewITCollector(agent, nil).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Len(t, agent.Calls(), 1)
}

func TestWalk_EndOfMibView(t *testing.T) {
	view := mib.NewView(g.Version2c)
	view.Set("1.3.6.1.2.1.2.2.1.2.1", g.OctetString, []byte("eth0"))
	agent := connectiontest.NewSession(view)

	table, err := NewITCollector(agent, nil).Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, table.Indices())
}

func TestWalk_TransportErrorAbortsWalk(t *testing.T) {
	agent := connectiontest.NewSession(connectiontest.NewIfTable(
		connectiontest.Row{Index: 1, Descr: "eth0"},
		connectiontest.Row{Index: 2, Descr: "eth1"},
	))
	agent.Fault = connectiontest.ErrorOnCall(2, errors.New("request timeout (after 0 retries)"))

	table, err := NewITCollector(agent, nil).Walk(context.Background())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, connection.IsTransportError(err))
	assert.Equal(t, "request timeout (after 0 retries)", err.Error())
	assert.Len(t, agent.Calls(), 2, "no request after the failure")
}

func TestWalk_AgentStatusError(t *testing.T) {
	agent := connectiontest.NewSession(connectiontest.NewIfTable(
		connectiontest.Row{Index: 1, Descr: "eth0"},
	))
	agent.Fault = connectiontest.StatusAt("1.3.6.1.2.1.2.2.1.2.1", g.GenErr)

	table, err := NewITCollector(agent, nil).Walk(context.Background())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, connection.IsAgentStatusError(err))
	assert.Contains(t, err.Error(), "at 1.3.6.1.2.1.2.2.1.2.1")
}

func TestWalk_NonIncreasing(t *testing.T) {
	agent := connectiontest.NewSession(connectiontest.NewIfTable(connectiontest.Row{Index: 1, Descr: "eth0"}))
	agent.Fault = func(n int, _ string, _ []string) (*g.SnmpPacket, error) {
		return &g.SnmpPacket{Variables: []g.SnmpPDU{
			{Name: ".1.3.6.1.2.1.2.2.1.2.1", Type: g.OctetString, Value: []byte("eth0")},
		}}, nil
	}

	_, err := NewITCollector(agent, nil).Walk(context.Background())
	assert.ErrorIs(t, err, ErrNotIncreasing)
	assert.Len(t, agent.Calls(), 2)
}

func TestWalk_EmptyResponse(t *testing.T) {
	agent := connectiontest.NewSession(mib.NewView(g.Version2c))
	agent.Fault = func(int, string, []string) (*g.SnmpPacket, error) {
		return &g.SnmpPacket{}, nil
	}

	_, err := NewITCollector(agent, nil).Walk(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.True(t, connection.IsTransportError(err))
}

func TestWalk_Cancelled(t *testing.T) {
	agent := connectiontest.NewSession(connectiontest.NewIfTable(connectiontest.Row{Index: 1, Descr: "eth0"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewITCollector(agent, nil).Walk(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, agent.Calls())
}

func TestTable_SetOverwritesInPlace(t *testing.T) {
	table := NewTable()
	table.Set("1.3.6.1.2.1.2.2.1.2.1", "eth0")
	table.Set("1.3.6.1.2.1.2.2.1.2.2", "eth1")
	table.Set("1.3.6.1.2.1.2.2.1.2.1", "eth0-new")

	assert.Equal(t, []Entry{
		{Oid: "1.3.6.1.2.1.2.2.1.2.1", Value: "eth0-new"},
		{Oid: "1.3.6.1.2.1.2.2.1.2.2", Value: "eth1"},
	}, table.Entries())
}
