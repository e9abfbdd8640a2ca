package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Event represents one parsed response line from the controller.
// Every received line maps to exactly one Event; UnknownEvent is the
// catch-all so parsing is total.
type Event interface {
	// Kind returns a short identifier for the event type.
	Kind() string
	String() string
}

// LoginPromptEvent indicates the controller is asking for credentials.
// The telnet banner contains "login:" (case varies by firmware).
type LoginPromptEvent struct {
	Raw string
}

func (e LoginPromptEvent) Kind() string   { return "login-prompt" }
func (e LoginPromptEvent) String() string { return "LoginPrompt" }

// LoginSuccessEvent indicates the controller accepted the credentials and
// issued its command prompt ("GNET>").
type LoginSuccessEvent struct {
	Raw string
}

func (e LoginSuccessEvent) Kind() string   { return "login-success" }
func (e LoginSuccessEvent) String() string { return "LoginSuccess" }

// ZoneLevelEvent reports the current level of a zone, either in response to
// a query or as an unsolicited monitoring update.
type ZoneLevelEvent struct {
	IntegrationID int
	Level         float64
}

func (e ZoneLevelEvent) Kind() string { return "zone-level" }

func (e ZoneLevelEvent) String() string {
	return fmt.Sprintf("ZoneLevel{id=%d, level=%.1f}", e.IntegrationID, e.Level)
}

// DeviceInfoEvent reports device metadata (~DEVICE lines). The fields after
// the name vary by device type and are carried verbatim.
type DeviceInfoEvent struct {
	IntegrationID int
	Name          string
	Fields        []string
}

func (e DeviceInfoEvent) Kind() string { return "device-info" }

func (e DeviceInfoEvent) String() string {
	return fmt.Sprintf("DeviceInfo{id=%d, name=%q, fields=%d}", e.IntegrationID, e.Name, len(e.Fields))
}

// ErrorEvent indicates the controller rejected a command or reported a fault.
type ErrorEvent struct {
	Raw string
}

func (e ErrorEvent) Kind() string   { return "error" }
func (e ErrorEvent) String() string { return fmt.Sprintf("Error{%q}", e.Raw) }

// UnknownEvent carries any line the parser could not classify. The session
// continues; these are logged and dropped by the client.
type UnknownEvent struct {
	Raw string
}

func (e UnknownEvent) Kind() string   { return "unknown" }
func (e UnknownEvent) String() string { return fmt.Sprintf("Unknown{%q}", e.Raw) }

// ParseLine classifies one received line, already stripped of its trailing
// CR/LF. Parsing is line-local: no lookahead, no state.
func ParseLine(line string) Event {
	lower := strings.ToLower(line)

	switch {
	case strings.Contains(lower, "login:"):
		return LoginPromptEvent{Raw: line}

	case strings.Contains(line, "GNET>"):
		return LoginSuccessEvent{Raw: line}

	case strings.HasPrefix(line, "~OUTPUT,"):
		if ev, ok := parseZoneLevel(line); ok {
			return ev
		}
		return UnknownEvent{Raw: line}

	case strings.HasPrefix(line, "~DEVICE,"):
		if ev, ok := parseDeviceInfo(line); ok {
			return ev
		}
		return UnknownEvent{Raw: line}

	case strings.Contains(lower, "invalid") || strings.Contains(lower, "error"):
		return ErrorEvent{Raw: line}

	default:
		return UnknownEvent{Raw: line}
	}
}

// parseZoneLevel parses "~OUTPUT,<id>,1,<level>". Any malformed field makes
// the whole line unknown rather than a partial event.
func parseZoneLevel(line string) (ZoneLevelEvent, bool) {
	fields := strings.Split(strings.TrimPrefix(line, "~OUTPUT,"), ",")
	if len(fields) < 3 {
		return ZoneLevelEvent{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return ZoneLevelEvent{}, false
	}

	action, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || action != ActionZoneLevel {
		return ZoneLevelEvent{}, false
	}

	level, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return ZoneLevelEvent{}, false
	}

	return ZoneLevelEvent{IntegrationID: id, Level: level}, true
}

// parseDeviceInfo parses "~DEVICE,<id>,<name>[,<field>...]".
func parseDeviceInfo(line string) (DeviceInfoEvent, bool) {
	fields := strings.Split(strings.TrimPrefix(line, "~DEVICE,"), ",")
	if len(fields) < 2 {
		return DeviceInfoEvent{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return DeviceInfoEvent{}, false
	}

	return DeviceInfoEvent{
		IntegrationID: id,
		Name:          fields[1],
		Fields:        fields[2:],
	}, true
}
