package protocol

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind string
		check    func(t *testing.T, ev Event)
	}{
		{
			name:     "login prompt",
			line:     "login:",
			wantKind: "login-prompt",
		},
		{
			name:     "login prompt mixed case with banner",
			line:     "Lutron RadioRA2 Main Repeater Login: ",
			wantKind: "login-prompt",
		},
		{
			name:     "login success prompt",
			line:     "GNET> ",
			wantKind: "login-success",
		},
		{
			name:     "zone level response",
			line:     "~OUTPUT,5,1,42.0",
			wantKind: "zone-level",
			check: func(t *testing.T, ev Event) {
				zl := ev.(ZoneLevelEvent)
				if zl.IntegrationID != 5 {
					t.Errorf("IntegrationID = %d, want 5", zl.IntegrationID)
				}
				if zl.Level != 42.0 {
					t.Errorf("Level = %v, want 42.0", zl.Level)
				}
			},
		},
		{
			name:     "zone level whole number",
			line:     "~OUTPUT,12,1,100",
			wantKind: "zone-level",
			check: func(t *testing.T, ev Event) {
				zl := ev.(ZoneLevelEvent)
				if zl.IntegrationID != 12 || zl.Level != 100 {
					t.Errorf("got id=%d level=%v, want id=12 level=100", zl.IntegrationID, zl.Level)
				}
			},
		},
		{
			name:     "zone level non-numeric level degrades to unknown",
			line:     "~OUTPUT,5,1,abc",
			wantKind: "unknown",
		},
		{
			name:     "zone level non-numeric id degrades to unknown",
			line:     "~OUTPUT,x,1,50",
			wantKind: "unknown",
		},
		{
			name:     "zone level wrong action degrades to unknown",
			line:     "~OUTPUT,5,2,50",
			wantKind: "unknown",
		},
		{
			name:     "zone level too few fields",
			line:     "~OUTPUT,5,1",
			wantKind: "unknown",
		},
		{
			name:     "device info",
			line:     "~DEVICE,21,Kitchen Keypad,3,4",
			wantKind: "device-info",
			check: func(t *testing.T, ev Event) {
				di := ev.(DeviceInfoEvent)
				if di.IntegrationID != 21 {
					t.Errorf("IntegrationID = %d, want 21", di.IntegrationID)
				}
				if di.Name != "Kitchen Keypad" {
					t.Errorf("Name = %q, want %q", di.Name, "Kitchen Keypad")
				}
				if len(di.Fields) != 2 {
					t.Errorf("Fields = %v, want 2 entries", di.Fields)
				}
			},
		},
		{
			name:     "device info without id degrades to unknown",
			line:     "~DEVICE,notanid,Lamp",
			wantKind: "unknown",
		},
		{
			name:     "error response",
			line:     "~ERROR,2",
			wantKind: "error",
		},
		{
			name:     "invalid command response",
			line:     "Invalid Command",
			wantKind: "error",
		},
		{
			name:     "unrecognized line",
			line:     "~MONITORING,5,1",
			wantKind: "unknown",
		},
		{
			name:     "empty line",
			line:     "",
			wantKind: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := ParseLine(tt.line)
			if ev.Kind() != tt.wantKind {
				t.Fatalf("ParseLine(%q).Kind() = %q, want %q", tt.line, ev.Kind(), tt.wantKind)
			}
			if tt.check != nil {
				tt.check(t, ev)
			}
		})
	}
}

// Parsing is total: no input line may panic or produce a nil event.
func TestParseLineTotal(t *testing.T) {
	lines := []string{
		"~OUTPUT,", "~OUTPUT", "~DEVICE,", ",,,,", "\x00\x01\x02",
		"~OUTPUT,999999999999999999999999,1,50",
	}
	for _, line := range lines {
		if ev := ParseLine(line); ev == nil {
			t.Errorf("ParseLine(%q) returned nil event", line)
		}
	}
}
