package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Phase         string      `json:"phase"`
	SwimState     string      `json:"swim_state,omitempty"`
	Countdown     int         `json:"countdown,omitempty"`
	SessionID     string      `json:"session_id,omitempty"`
	SetCount      int         `json:"set_count"`
	LapsInSet     int         `json:"laps_in_set"`
	TotalLaps     int         `json:"total_laps"`
	ElapsedSec    float64     `json:"elapsed_seconds"`
	TapsDetected  int         `json:"taps_detected"`
	CorrectedSets int         `json:"corrected_sets"`
	LastTap       *TapJSON    `json:"last_tap,omitempty"`
	Sets          []SetJSON   `json:"recent_sets,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Config        ConfigJSON  `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// TapJSON is the JSON representation of the most recent wall tap.
type TapJSON struct {
	Timestamp string  `json:"timestamp"`
	Magnitude float64 `json:"magnitude_g"`
}

// SetJSON is the JSON representation of one finished set.
type SetJSON struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationSeconds float64 `json:"duration_seconds"`
	Laps            int     `json:"laps"`
	Corrected       bool    `json:"corrected"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SampleMs    int64   `json:"sample_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	PoolLength  float64 `json:"pool_length"`
	PoolUnit    string  `json:"pool_unit"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Phase:         string(snap.Workout.Phase),
		SwimState:     string(snap.Workout.Swim),
		Countdown:     snap.Workout.Countdown,
		SessionID:     snap.Workout.SessionID,
		SetCount:      snap.Workout.SetCount,
		LapsInSet:     snap.Workout.LapsInSet,
		TotalLaps:     snap.Workout.TotalLaps,
		ElapsedSec:    snap.Workout.Elapsed.Seconds(),
		TapsDetected:  snap.TapsDetected,
		CorrectedSets: snap.CorrectedSets,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			SampleMs:    snap.Config.SampleMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			PoolLength:  snap.Config.PoolLength,
			PoolUnit:    snap.Config.PoolUnit,
		},
	}

	if snap.LastTap != nil {
		inner.LastTap = &TapJSON{
			Timestamp: snap.LastTap.Time.UTC().Format(time.RFC3339Nano),
			Magnitude: snap.LastTap.Magnitude,
		}
	}
	for _, rec := range snap.RecentSets {
		inner.Sets = append(inner.Sets, SetJSON{
			Start:           rec.Start.UTC().Format(time.RFC3339Nano),
			End:             rec.End.UTC().Format(time.RFC3339Nano),
			DurationSeconds: rec.Duration().Seconds(),
			Laps:            rec.Laps,
			Corrected:       rec.Corrected,
		})
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
