// internal/status/color.go
package status

// Color is the indicator color of a display element.
type Color uint8

const (
	// ColorNone means "do not touch the current color".
	ColorNone Color = iota
	ColorGreen
	ColorOrange
	ColorRed
)

func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorOrange:
		return "orange"
	case ColorRed:
		return "red"
	}
	return "none"
}

// ColorFor applies the per-key colorization rules.
// No IO. No side effects.
func ColorFor(key, value string) Color {
	switch key {
	case KeyServerStatus:
		return greenIf(value == ValueRunning)

	case KeyDatabaseStatus, KeyPolyphenyControl, KeyPolyphenyDB:
		return greenIf(value == ValueConnected)

	case KeyDefcon:
		switch value {
		case "5":
			return ColorGreen
		case "4", "3":
			return ColorOrange
		case "2", "1":
			return ColorRed
		}
		// Any other level leaves the prior color in place.
		return ColorNone
	}

	// docker-status and polyfier-phase are text only.
	return ColorNone
}

func greenIf(ok bool) Color {
	if ok {
		return ColorGreen
	}
	return ColorRed
}
