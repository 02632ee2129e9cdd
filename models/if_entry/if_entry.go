package if_entry

import (
	"network-rrd/pkg/oids"
)

// InterfaceRecord is one row of the report. Values are the agent's textual
// representation, carried verbatim.
type InterfaceRecord struct {
	Index       string                 `json:"index"`
	Description string                 `json:"description"`
	InOctets    string                 `json:"in_octets"`
	OutOctets   string                 `json:"out_octets"`
	Oids        map[oids.Column]string `json:"-"`
}

// QueryColumns are read for every discovered interface, in this order.
var QueryColumns = []oids.Column{oids.IfDescr, oids.IfInOctets, oids.IfOutOctets}

func (r *InterfaceRecord) SetOids(columns []oids.Column) error {
	built := make(map[oids.Column]string, len(columns))
	for _, column := range columns {
		oid, err := oids.Build(column, r.Index)
		if err != nil {
			return err
		}
		built[column] = oid
	}
	r.Oids = built
	return nil
}

func (r *InterfaceRecord) SetValue(column oids.Column, value string) {
	switch column {
	case oids.IfDescr:
		r.Description = value
	case oids.IfInOctets:
		r.InOctets = value
	case oids.IfOutOctets:
		r.OutOctets = value
	}
}
