package connection

import (
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// PingHost fails when fewer than minPktsReceived of count echo requests come back.
func PingHost(host string, count int, minPktsReceived int, timeout time.Duration) error {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return fmt.Errorf("create pinger for %s: %w", host, err)
	}

	pinger.Count = count
	pinger.Timeout = timeout

	if err := pinger.Run(); err != nil {
		return fmt.Errorf("ping %s: %w", host, err)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv < minPktsReceived {
		return fmt.Errorf("host %s seems to be down or not responding. %d packets received out of %d sent", host, stats.PacketsRecv, stats.PacketsSent)
	}
	return nil
}
