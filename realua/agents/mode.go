package agents

import "strings"

// Mode selects which bundled list a user agent is drawn from.
type Mode int

const (
	Desktop Mode = iota
	Mobile
)

func (m Mode) String() string {
	switch m {
	case Desktop:
		return "desktop"
	case Mobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// ParseMode accepts "desktop" or "mobile" in any case. An empty string
// means Desktop.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desktop":
		return Desktop, nil
	case "mobile":
		return Mobile, nil
	default:
		return Desktop, &InvalidModeError{Value: s}
	}
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
