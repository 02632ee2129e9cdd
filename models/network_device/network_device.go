package network_device

import (
	"time"

	model_entry "network-rrd/models/if_entry"
)

type NetworkDevice struct {
	Hostname   string                        `json:"hostname"`
	Port       int                           `json:"port"`
	Interfaces []model_entry.InterfaceRecord `json:"interfaces"`
	Time       time.Time                     `json:"time"`
}
