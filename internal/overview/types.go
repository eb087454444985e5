package overview

import (
	"math"
	"time"
)

// Device statuses as reported by the inventory API.
const (
	StatusOnline  = "Online"
	StatusOffline = "Offline"
)

// Device is one monitored sensor/meter as the inventory API reports it.
// Coordinates are optional: devices without a surveyed position carry nil
// latitude/longitude and never reach the map layer.
type Device struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Serial         string     `json:"serial"`
	SiteName       string     `json:"site_name"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	Status         string     `json:"status"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	LatestFlow     *float64   `json:"latest_flow,omitempty"`
	LatestPressure *float64   `json:"latest_pressure,omitempty"`
}

// OrgNode is a node in the customer's asset hierarchy. The overview only uses
// it as a scope filter for fetches.
type OrgNode struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// AlarmSummary is the already-aggregated active-alarm count for a scope.
type AlarmSummary struct {
	ActiveCount int `json:"active_count"`
}

// Snapshot is the immutable result of one load. Every load replaces the prior
// snapshot wholesale; nothing is merged or mutated in place.
type Snapshot struct {
	Revision string
	Scope    *OrgNode
	Devices  []Device
	Alarms   AlarmSummary
	LoadedAt time.Time
}

// HasPosition reports whether the device carries a usable coordinate pair.
func (d Device) HasPosition() bool {
	return d.Latitude != nil && d.Longitude != nil &&
		isFinite(*d.Latitude) && isFinite(*d.Longitude)
}

// ValidDevices filters the list down to devices with present, numeric
// coordinates. Order-preserving; membership does not depend on list order.
func ValidDevices(devices []Device) []Device {
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.HasPosition() {
			out = append(out, d)
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
