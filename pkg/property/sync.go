package property

import (
	"fmt"
	"strings"
)

// MostRecentWins takes the cloud value only if it changed after the last
// local change. Otherwise the local value is published on the next cycle.
func MostRecentWins(p *Property) {
	if p.lastCloudChange > p.lastLocalChange {
		p.FromCloudToLocal()
		p.ExecOnChange()
	}
}

// CloudWins always takes the cloud value.
func CloudWins(p *Property) {
	p.FromCloudToLocal()
	p.ExecOnChange()
}

// DeviceWins keeps the local value; it reaches the cloud on the next cycle.
func DeviceWins(*Property) {}

// ParseSyncPolicy returns the stock sync hook for a policy name.
// An empty name selects no hook.
func ParseSyncPolicy(s string) (SyncFunc, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "most-recent-wins", "most_recent_wins", "auto":
		return MostRecentWins, nil
	case "cloud-wins", "cloud_wins", "cloud":
		return CloudWins, nil
	case "device-wins", "device_wins", "device":
		return DeviceWins, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyncPolicy, s)
	}
}
