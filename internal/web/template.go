package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/daylight-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
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
	"clock": func(dayTime int64) string {
		// 0 ticks = 06:00, 1000 ticks per in-game hour.
		t := dayTime % 24000
		h := (t/1000 + 6) % 24
		m := (t % 1000) * 60 / 1000
		return fmt.Sprintf("%02d:%02d", h, m)
	},
	"pct": func(level float64) string {
		return fmt.Sprintf("%.0f%%", level*100)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Daylight Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.powered { color: green; font-weight: bold; }
.dark { color: #888; }
.inverted { color: purple; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Daylight Sensor</h1>

<h2>World</h2>
<table>
<tr><th>Day time</th><td>{{.DayTime}} ({{clock .DayTime}})</td></tr>
<tr><th>Rain</th><td>{{pct .Rain}}</td></tr>
<tr><th>Thunder</th><td>{{pct .Thunder}}</td></tr>
</table>

<h2>Detectors</h2>
<table>
<tr><th>Position</th><th>Mode</th><th>Power</th></tr>
{{range .Detectors}}<tr>
<td>{{.Pos.X}},{{.Pos.Y}},{{.Pos.Z}}</td>
<td class="{{if .Inverted}}inverted{{end}}">{{if .Inverted}}inverted{{else}}normal{{end}}</td>
<td class="{{if gt .Power 0}}powered{{else}}dark{{end}}">{{.Power}}</td>
</tr>
{{else}}<tr><td colspan="3">none</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Write Counts</h2>
<table>
<tr><th>Power writes</th><td>{{.Counts.PowerWrites}}</td></tr>
<tr><th>Mode flips</th><td>{{.Counts.ModeFlips}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Instance</th><td>{{.InstanceID}}</td></tr>
<tr><th>Tick rate</th><td>{{.Config.TickRateHz}}Hz</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Skylight</th><td>{{.Config.SkylightSource}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
