package markers

import (
	"fmt"
	"strings"
)

// Canonical device types known to the overview map.
const (
	TypeFlowMeter      = "flow_meter"
	TypePressureSensor = "pressure_sensor"
	TypeLevelSensor    = "level_sensor"
	TypeValve          = "valve"
	TypePumpStation    = "pump_station"
)

// Marker colors by connectivity status.
const (
	ColorOnline  = "#2e7d32"
	ColorOffline = "#c62828"
)

// FallbackLetter marks device types the overview does not recognize.
const FallbackLetter = "D"

// Glyph is one rendered map marker: a colored disc with a single-letter
// device-type abbreviation.
type Glyph struct {
	Letter string `json:"letter"`
	Color  string `json:"color"`
	SVG    string `json:"svg"`
}

// Letter maps a device type to its single-letter abbreviation.
func Letter(deviceType string) string {
	switch NormalizeType(deviceType) {
	case TypeFlowMeter:
		return "F"
	case TypePressureSensor:
		return "P"
	case TypeLevelSensor:
		return "L"
	case TypeValve:
		return "V"
	case TypePumpStation:
		return "U"
	default:
		return FallbackLetter
	}
}

// Color maps a connectivity status to a marker color. Anything other than
// Online renders as unreachable.
func Color(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), "online") {
		return ColorOnline
	}
	return ColorOffline
}

// NormalizeType canonicalizes free-form type strings ("Flow Meter", "flow-meter")
// into the snake_case constants above.
func NormalizeType(deviceType string) string {
	t := strings.ToLower(strings.TrimSpace(deviceType))
	t = strings.ReplaceAll(t, "-", "_")
	t = strings.ReplaceAll(t, " ", "_")
	return t
}

// Render synthesizes the marker glyph for a device. Pure: same inputs always
// yield the same glyph.
func Render(status, deviceType string) Glyph {
	letter := Letter(deviceType)
	color := Color(status)
	return Glyph{
		Letter: letter,
		Color:  color,
		SVG:    renderSVG(letter, color),
	}
}

func renderSVG(letter, color string) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="28" height="28" viewBox="0 0 28 28">`+
			`<circle cx="14" cy="14" r="12" fill="%s" stroke="#ffffff" stroke-width="2"/>`+
			`<text x="14" y="19" text-anchor="middle" font-family="sans-serif" font-size="13" font-weight="bold" fill="#ffffff">%s</text>`+
			`</svg>`,
		color, letter,
	)
}
