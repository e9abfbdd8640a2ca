package config

// Settings is the tool's persisted configuration. It is constructed once
// at startup (LoadSettings) and injected into the components that need
// it.
type Settings struct {
	Version    int        `yaml:"version"`
	Controller Controller `yaml:"controller"`
	Scan       Scan       `yaml:"scan"`

	// ZoneNotes holds free-form operator notes keyed by integration ID,
	// e.g. "flickers below 20%". Shown alongside zone queries.
	ZoneNotes map[int]string `yaml:"zone_notes,omitempty"`
}

// Note returns the operator note for a zone, if one is recorded.
func (s *Settings) Note(integrationID int) (string, bool) {
	note, ok := s.ZoneNotes[integrationID]
	return note, ok
}

// SetNote records an operator note for a zone. An empty note removes the
// entry.
func (s *Settings) SetNote(integrationID int, note string) {
	if note == "" {
		delete(s.ZoneNotes, integrationID)
		return
	}
	if s.ZoneNotes == nil {
		s.ZoneNotes = make(map[int]string)
	}
	s.ZoneNotes[integrationID] = note
}

// Controller identifies the lighting controller and the account used for
// the integration protocol. The password is never stored here.
type Controller struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
}

// Scan holds subnet scan preferences.
type Scan struct {
	// Port probed on every candidate address.
	Port int `yaml:"port,omitempty"`

	// MDNS enables the mDNS pre-pass that seeds the candidate list.
	MDNS bool `yaml:"mdns"`

	// MDNSTimeoutSeconds bounds the mDNS browse.
	MDNSTimeoutSeconds int `yaml:"mdns_timeout_seconds,omitempty"`
}

// NewSettings returns settings with the conventional defaults: telnet
// port 23 and the controller's stock integration account name.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Controller: Controller{
			Port:     23,
			Username: "lutron",
		},
		Scan: Scan{
			Port:               23,
			MDNS:               true,
			MDNSTimeoutSeconds: 3,
		},
	}
}
