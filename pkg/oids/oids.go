// Package oids holds the IF-MIB column registry and the helpers that turn a
// column plus an interface index into a query OID.
package oids

import (
	"fmt"
	"strconv"
	"strings"

	"network-rrd/util"
)

type Column string

const (
	IfDescr     Column = "ifDescr"
	IfType      Column = "ifType"
	IfInOctets  Column = "ifInOctets"
	IfOutOctets Column = "ifOutOctets"
)

// Columns maps a column to its OID under ifEntry (1.3.6.1.2.1.2.2.1).
var Columns = map[Column]string{
	IfDescr:     "1.3.6.1.2.1.2.2.1.2",
	IfType:      "1.3.6.1.2.1.2.2.1.3",
	IfInOctets:  "1.3.6.1.2.1.2.2.1.10",
	IfOutOctets: "1.3.6.1.2.1.2.2.1.16",
}

// The walk starts at ifDescr and ends once the agent answers from ifType, the
// next sibling column.
var (
	InterfaceListBegin = Columns[IfDescr]
	InterfaceListEnd   = Columns[IfType]
)

// Build returns the OID of column for the given interface index.
func Build(column Column, index string) (string, error) {
	base, ok := Columns[column]
	if !ok {
		return "", fmt.Errorf("unknown column %q", column)
	}
	if !IsIndex(index) {
		return "", fmt.Errorf("invalid interface index %q", index)
	}
	return base + "." + index, nil
}

// ColumnOf names the column an instance OID belongs to, or "" when it is
// outside the registry.
func ColumnOf(oid string) Column {
	m := make(map[string]string, len(Columns))
	for column, base := range Columns {
		m[string(column)] = base
	}
	return Column(util.GetKeyByOid(m, oid))
}

// ExtractIndex returns the substring after the last separator of oid.
func ExtractIndex(oid string) string {
	return oid[strings.LastIndex(oid, ".")+1:]
}

func IsIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Compare orders two dotted OIDs by their numeric sub-identifiers. A leading dot
// is ignored. It returns -1, 0 or 1.
func Compare(a, b string) int {
	as := split(a)
	bs := split(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func split(oid string) []uint64 {
	oid = strings.TrimPrefix(oid, ".")
	if oid == "" {
		return nil
	}
	parts := strings.Split(oid, ".")
	out := make([]uint64, len(parts))
	for i, p := range parts {
		// non-numeric arcs sort first
		out[i], _ = strconv.ParseUint(p, 10, 64)
	}
	return out
}
