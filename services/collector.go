package services

import (
	"context"
	"sync"

	model_device "network-rrd/models/network_device"
)

// ISink receives the complete result of a successful poll.
type ISink interface {
	Name() string
	Write(ctx context.Context, device *model_device.NetworkDevice) error
}

var (
	mu         sync.Mutex
	localSinks []ISink
)

func RegisterSink(i ISink) {
	mu.Lock()
	defer mu.Unlock()
	localSinks = append(localSinks, i)
}

// Sinks returns the registered sinks in registration order.
func Sinks() []ISink {
	mu.Lock()
	defer mu.Unlock()
	return append([]ISink(nil), localSinks...)
}

func ResetSinks() {
	mu.Lock()
	defer mu.Unlock()
	localSinks = nil
}
