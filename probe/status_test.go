package probe

import "testing"

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Precedence(t *testing.T) {
	if !(StatusHealthy < StatusDegraded && StatusDegraded < StatusUnhealthy) {
		t.Error("status ordinals must order healthy < degraded < unhealthy")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		token string
		want  Status
	}{
		{"healthy", StatusHealthy},
		{"Healthy", StatusHealthy},
		{"HEALTHY", StatusHealthy},
		{"degraded", StatusDegraded},
		{"unhealthy", StatusUnhealthy},
		{"ok", StatusHealthy},
		{"OK", StatusHealthy},
		{"warn", StatusDegraded},
		{"warning", StatusDegraded},
		{"fail", StatusUnhealthy},
		{"failed", StatusUnhealthy},
		{"  ok  ", StatusHealthy},
		{"boom", StatusUnhealthy},
		{"", StatusUnhealthy},
		{"0", StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := ParseStatus(tt.token); got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestStatus_MarshalText(t *testing.T) {
	got, err := StatusDegraded.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(got) != "degraded" {
		t.Errorf("MarshalText() = %q, want %q", got, "degraded")
	}
}

func TestStatus_UnmarshalText(t *testing.T) {
	var s Status
	if err := s.UnmarshalText([]byte("warn")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if s != StatusDegraded {
		t.Errorf("UnmarshalText(warn) = %v, want StatusDegraded", s)
	}
}
