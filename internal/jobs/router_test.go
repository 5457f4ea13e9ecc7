package jobs

import "testing"

func TestDurationRouterRoute(t *testing.T) {
	router := NewDurationRouter(900)

	tests := []struct {
		name     string
		duration int64
		want     Route
	}{
		{"zero", 0, RouteLocalOnly},
		{"short clip", 300, RouteLocalOnly},
		{"just below threshold", 899, RouteLocalOnly},
		{"exactly at threshold", 900, RouteLocalOnly},
		{"just above threshold", 901, RouteBackgroundJob},
		{"long mix", 1200, RouteBackgroundJob},
		{"multi-hour set", 7200, RouteBackgroundJob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := router.Route(tt.duration); got != tt.want {
				t.Errorf("Route(%d) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestDurationRouterDefaults(t *testing.T) {
	for _, bad := range []int64{0, -1} {
		router := NewDurationRouter(bad)
		if router.Threshold() != DefaultThresholdSeconds {
			t.Errorf("NewDurationRouter(%d).Threshold() = %d, want %d",
				bad, router.Threshold(), DefaultThresholdSeconds)
		}
	}

	router := NewDurationRouter(600)
	if router.Threshold() != 600 {
		t.Errorf("Threshold() = %d, want 600", router.Threshold())
	}
}
