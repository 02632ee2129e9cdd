// Package system answers IF-MIB requests for the host it runs on, from the
// kernel's per-NIC counters.
package system

import (
	"fmt"
	"strconv"
	"strings"

	"network-rrd/pkg/mib"
	"network-rrd/pkg/oids"

	g "github.com/gosnmp/gosnmp"
	"github.com/shirou/gopsutil/v3/net"
)

const (
	ifTypeEthernetCsmacd   = 6
	ifTypeSoftwareLoopback = 24
)

// DefaultSkipPrefixes hides container plumbing.
var DefaultSkipPrefixes = []string{"veth", "br-", "docker"}

type CountersFunc func() ([]net.IOCountersStat, error)

// HostCounters reads per-interface counters of the local host.
func HostCounters() ([]net.IOCountersStat, error) {
	return net.IOCounters(true)
}

// LocalAgent is a read-only snapshot of the host's interfaces served as an
// ifTable. Counters are Counter32, so they wrap at 2^32 like a real agent's.
type LocalAgent struct {
	*mib.View
	SkipPrefixes []string
	counters     CountersFunc
}

func NewLocalAgent(counters CountersFunc) (*LocalAgent, error) {
	if counters == nil {
		counters = HostCounters
	}
	a := &LocalAgent{
		View:         mib.NewView(g.Version2c),
		SkipPrefixes: DefaultSkipPrefixes,
		counters:     counters,
	}
	if err := a.Collect(); err != nil {
		return nil, err
	}
	return a, nil
}

// Collect replaces the snapshot with the current counters.
func (a *LocalAgent) Collect() error {
	stats, err := a.counters()
	if err != nil {
		return fmt.Errorf("fail to get network data: %w", err)
	}

	view := mib.NewView(a.View.Version)
	index := 0
	for _, stat := range stats {
		if a.skip(stat.Name) {
			continue
		}
		index++
		idx := "." + strconv.Itoa(index)

		ifType := ifTypeEthernetCsmacd
		if isLoopback(stat.Name) {
			ifType = ifTypeSoftwareLoopback
		}

		view.Set(oids.Columns[oids.IfDescr]+idx, g.OctetString, []byte(stat.Name))
		view.Set(oids.Columns[oids.IfType]+idx, g.Integer, ifType)
		view.Set(oids.Columns[oids.IfInOctets]+idx, g.Counter32, uint(uint32(stat.BytesRecv)))
		view.Set(oids.Columns[oids.IfOutOctets]+idx, g.Counter32, uint(uint32(stat.BytesSent)))
	}
	a.View = view
	return nil
}

func (a *LocalAgent) skip(name string) bool {
	for _, prefix := range a.SkipPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func isLoopback(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0") || strings.HasPrefix(strings.ToLower(name), "loopback")
}
