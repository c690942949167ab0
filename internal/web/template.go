package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/joeldrotleff/JustSwim/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"clock": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if h > 0 {
			return fmt.Sprintf("%d:%02d:%02d", h, m, s)
		}
		return fmt.Sprintf("%d:%02d", m, s)
	},
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="1">
<title>JustSwim</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.swimming { color: green; font-weight: bold; }
.resting { color: #888; }
.countdown { color: orange; font-weight: bold; }
.corrected { color: green; }
.connected { color: green; }
.disconnected { color: red; }
.big { font-size: 2em; }
</style>
</head>
<body>
<h1>JustSwim</h1>

<h2>Workout</h2>
<table>
<tr><th>Phase</th><td>{{.Workout.Phase}}</td></tr>
{{if eq (printf "%s" .Workout.Swim) "SWIMMING"}}<tr><th>State</th><td class="swimming">SWIMMING</td></tr>
{{else if eq (printf "%s" .Workout.Swim) "COUNTDOWN_TO_SWIM"}}<tr><th>State</th><td class="countdown">GO IN {{.Workout.Countdown}}…</td></tr>
{{else if eq (printf "%s" .Workout.Swim) "RESTING"}}<tr><th>State</th><td class="resting">RESTING</td></tr>{{end}}
<tr><th>Elapsed</th><td class="big">{{clock .Workout.Elapsed}}</td></tr>
<tr><th>Sets</th><td>{{.Workout.SetCount}}</td></tr>
<tr><th>Laps (this set)</th><td>{{.Workout.LapsInSet}}</td></tr>
<tr><th>Laps (total)</th><td>{{.Workout.TotalLaps}}</td></tr>
<tr><th>Pool</th><td>{{.Config.PoolLength}}{{.Config.PoolUnit}}</td></tr>
</table>

<h2>Wall Taps</h2>
<table>
<tr><th>Detected</th><td>{{.TapsDetected}}</td></tr>
<tr><th>Corrected sets</th><td>{{.CorrectedSets}}</td></tr>
{{if .LastTap}}<tr><th>Last tap</th><td>{{.LastTap.Time.UTC.Format "15:04:05.00"}} ({{printf "%.2f" .LastTap.Magnitude}}g)</td></tr>{{end}}
</table>

{{if .RecentSets}}<h2>Recent Sets</h2>
<table>
<tr><th>Start</th><td>Duration</td><td>Laps</td><td></td></tr>
{{range .RecentSets}}<tr><th>{{.Start.UTC.Format "15:04:05"}}</th><td>{{clock .Duration}}</td><td>{{.Laps}}</td><td>{{if .Corrected}}<span class="corrected">tap</span>{{end}}</td></tr>
{{end}}</table>{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sample</th><td>{{.Config.SampleMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
