// Package mib is an in-memory, numerically ordered MIB view that answers GET and
// GETNEXT the way an agent does. It backs the local agent and test fixtures.
package mib

import (
	"sort"
	"strings"
	"sync"

	"network-rrd/pkg/oids"

	g "github.com/gosnmp/gosnmp"
)

type View struct {
	Version g.SnmpVersion

	mu   sync.RWMutex
	pdus []g.SnmpPDU
}

func NewView(version g.SnmpVersion) *View {
	return &View{Version: version}
}

// Set stores value at oid, replacing any previous binding.
func (v *View) Set(oid string, typ g.Asn1BER, value interface{}) {
	name := "." + strings.TrimPrefix(oid, ".")
	pdu := g.SnmpPDU{Name: name, Type: typ, Value: value}

	v.mu.Lock()
	defer v.mu.Unlock()

	i := sort.Search(len(v.pdus), func(i int) bool {
		return oids.Compare(v.pdus[i].Name, name) >= 0
	})
	if i < len(v.pdus) && oids.Compare(v.pdus[i].Name, name) == 0 {
		v.pdus[i] = pdu
		return
	}
	v.pdus = append(v.pdus, g.SnmpPDU{})
	copy(v.pdus[i+1:], v.pdus[i:])
	v.pdus[i] = pdu
}

func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.pdus)
}

func (v *View) Get(requested []string) (*g.SnmpPacket, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	result := v.packet()
	for i, oid := range requested {
		name := "." + strings.TrimPrefix(oid, ".")
		j := v.search(name)
		if j < len(v.pdus) && oids.Compare(v.pdus[j].Name, name) == 0 {
			result.Variables = append(result.Variables, v.pdus[j])
			continue
		}
		if v.Version == g.Version1 {
			return v.noSuchName(requested, i), nil
		}
		result.Variables = append(result.Variables, g.SnmpPDU{Name: name, Type: g.NoSuchInstance})
	}
	return result, nil
}

func (v *View) GetNext(requested []string) (*g.SnmpPacket, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	result := v.packet()
	for i, oid := range requested {
		name := "." + strings.TrimPrefix(oid, ".")
		j := v.search(name)
		if j < len(v.pdus) && oids.Compare(v.pdus[j].Name, name) == 0 {
			j++
		}
		if j < len(v.pdus) {
			result.Variables = append(result.Variables, v.pdus[j])
			continue
		}
		if v.Version == g.Version1 {
			return v.noSuchName(requested, i), nil
		}
		result.Variables = append(result.Variables, g.SnmpPDU{Name: name, Type: g.EndOfMibView})
	}
	return result, nil
}

// search returns the position of the first binding >= name.
func (v *View) search(name string) int {
	return sort.Search(len(v.pdus), func(i int) bool {
		return oids.Compare(v.pdus[i].Name, name) >= 0
	})
}

func (v *View) packet() *g.SnmpPacket {
	return &g.SnmpPacket{Version: v.Version, PDUType: g.GetResponse, Error: g.NoError}
}

func (v *View) noSuchName(requested []string, i int) *g.SnmpPacket {
	result := v.packet()
	result.Error = g.NoSuchName
	result.ErrorIndex = uint8(i + 1)
	for _, oid := range requested {
		result.Variables = append(result.Variables, g.SnmpPDU{Name: "." + strings.TrimPrefix(oid, "."), Type: g.Null})
	}
	return result
}
