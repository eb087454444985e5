package overview

import "math"

// Stats are the aggregate figures shown in the side panel. They are a pure
// function of one snapshot and are never persisted.
type Stats struct {
	Total        int            `json:"total"`
	Online       int            `json:"online"`
	Offline      int            `json:"offline"`
	OnlineRate   int            `json:"online_rate"`
	ActiveAlarms int            `json:"active_alarms"`
	ByType       map[string]int `json:"by_type"`
}

// ComputeStats derives panel statistics from a device list and alarm summary.
// Only devices with usable coordinates count; a device that is not Online
// counts as Offline, so Online+Offline always equals Total.
func ComputeStats(devices []Device, alarms AlarmSummary) Stats {
	valid := ValidDevices(devices)

	s := Stats{
		Total:        len(valid),
		ActiveAlarms: alarms.ActiveCount,
		ByType:       make(map[string]int),
	}

	for _, d := range valid {
		if d.Status == StatusOnline {
			s.Online++
		} else {
			s.Offline++
		}
		s.ByType[d.Type]++
	}

	if s.Total > 0 {
		s.OnlineRate = int(math.Round(float64(s.Online) / float64(s.Total) * 100))
	}
	return s
}
