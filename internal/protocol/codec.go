package protocol

import (
	"fmt"
	"strconv"
)

// Protocol constants for the Lutron integration protocol.
const (
	// DefaultPort is the TCP port the integration protocol listens on.
	DefaultPort = 23

	// ActionZoneLevel is the OUTPUT action number for zone level get/set.
	ActionZoneLevel = 1

	// ActionButtonPress is the DEVICE action number for a button press.
	ActionButtonPress = 3
)

// Login encodes the login exchange: username and password, each on its own
// CRLF-terminated line. The controller prompts for both before granting the
// GNET> prompt.
func Login(username, password string) string {
	return username + "\r\n" + password + "\r\n"
}

// QueryZoneLevel encodes a query for the current level of a zone.
func QueryZoneLevel(integrationID int) string {
	return fmt.Sprintf("?OUTPUT,%d,%d\r\n", integrationID, ActionZoneLevel)
}

// SetZoneLevel encodes a zone level change. Level is a percentage (the caller
// validates range); fade is the ramp duration in seconds, formatted with two
// decimal places as the controller expects.
func SetZoneLevel(integrationID int, level float64, fadeSeconds float64) string {
	return fmt.Sprintf("#OUTPUT,%d,%d,%s,%.2f\r\n",
		integrationID, ActionZoneLevel, formatLevel(level), fadeSeconds)
}

// ActivateScene encodes a keypad button press, which is how scenes are
// activated over the integration protocol.
func ActivateScene(keypadID, button int) string {
	return fmt.Sprintf("#DEVICE,%d,%d,%d\r\n", keypadID, button, ActionButtonPress)
}

// Ping encodes a system query. The controller answers on any live session,
// so this doubles as a keepalive and a banner probe.
func Ping() string {
	return "?SYSTEM,1\r\n"
}

// formatLevel renders a level without a trailing ".0" for whole numbers, so
// SetZoneLevel(5, 42, 1.5) produces "#OUTPUT,5,1,42,1.50" exactly as the
// controller's own tooling does.
func formatLevel(level float64) string {
	return strconv.FormatFloat(level, 'f', -1, 64)
}
