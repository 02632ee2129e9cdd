package snmp

import (
	"strings"
	"time"

	g "github.com/gosnmp/gosnmp"
)

// SNMPConnectionConfig is the device record every protocol call is made with.
type SNMPConnectionConfig struct {
	Hostname  string        `json:"hostname"`
	Port      int           `json:"port"`
	Community string        `json:"community"`
	Version   string        `json:"version"`
	Timeout   time.Duration `json:"timeout"`
}

type Pdu struct {
	Oid   string `json:"oid"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func GetSNMPVersion(v string) (version g.SnmpVersion) {
	switch v {
	case "1":
		version = g.Version1
	case "2c":
		version = g.Version2c
	default:
		version = g.Version2c
	}
	return
}

// GetSNMPValue returns the OID of a variable binding without the leading dot and
// the textual form of its value. Counters and integers are rendered in decimal,
// octet strings as text; nothing is interpreted.
func GetSNMPValue(variable g.SnmpPDU) (oid string, value string) {
	oid = strings.TrimPrefix(variable.Name, ".")

	switch variable.Type {
	case g.OctetString:
		bytes, _ := variable.Value.([]byte)
		value = string(bytes)
	case g.ObjectIdentifier:
		s, _ := variable.Value.(string)
		value = strings.TrimPrefix(s, ".")
	case g.IPAddress:
		s, _ := variable.Value.(string)
		value = s
	case g.NoSuchObject:
		value = "No Such Object currently exists at this OID"
	case g.NoSuchInstance:
		value = "No Such Instance currently exists at this OID"
	case g.EndOfMibView:
		value = "No more variables left in this MIB View"
	case g.Null:
		value = ""
	default:
		value = g.ToBigInt(variable.Value).String()
	}
	return
}
