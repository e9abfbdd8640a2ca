package protocol

import "testing"

func TestLogin(t *testing.T) {
	got := Login("lutron", "integration")
	want := "lutron\r\nintegration\r\n"
	if got != want {
		t.Errorf("Login() = %q, want %q", got, want)
	}
}

func TestQueryZoneLevel(t *testing.T) {
	tests := []struct {
		name string
		id   int
		want string
	}{
		{"single digit", 5, "?OUTPUT,5,1\r\n"},
		{"multi digit", 123, "?OUTPUT,123,1\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QueryZoneLevel(tt.id); got != tt.want {
				t.Errorf("QueryZoneLevel(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestSetZoneLevel(t *testing.T) {
	tests := []struct {
		name  string
		id    int
		level float64
		fade  float64
		want  string
	}{
		{"whole level with fade", 5, 42, 1.5, "#OUTPUT,5,1,42,1.50\r\n"},
		{"zero level instant", 7, 0, 0, "#OUTPUT,7,1,0,0.00\r\n"},
		{"full on half second fade", 12, 100, 0.5, "#OUTPUT,12,1,100,0.50\r\n"},
		{"fractional level", 3, 52.5, 2, "#OUTPUT,3,1,52.5,2.00\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetZoneLevel(tt.id, tt.level, tt.fade)
			if got != tt.want {
				t.Errorf("SetZoneLevel(%d, %v, %v) = %q, want %q",
					tt.id, tt.level, tt.fade, got, tt.want)
			}
		})
	}
}

func TestActivateScene(t *testing.T) {
	got := ActivateScene(21, 4)
	want := "#DEVICE,21,4,3\r\n"
	if got != want {
		t.Errorf("ActivateScene(21, 4) = %q, want %q", got, want)
	}
}

func TestPing(t *testing.T) {
	if got := Ping(); got != "?SYSTEM,1\r\n" {
		t.Errorf("Ping() = %q, want %q", got, "?SYSTEM,1\r\n")
	}
}
