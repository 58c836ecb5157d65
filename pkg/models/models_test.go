package models

import (
	"encoding/json"
	"testing"
)

func TestLoopSettingsNormalize(t *testing.T) {
	t.Parallel()

	t.Run("random clears fixed delay", func(t *testing.T) {
		t.Parallel()
		ls := LoopSettings{Loops: 1, Delay: 10, RandomDelay: true, MinDelay: 1, MaxDelay: 5}
		ls.Normalize()
		if ls.Delay != 0 {
			t.Errorf("Delay = %g, want 0", ls.Delay)
		}
		if ls.MinDelay != 1 || ls.MaxDelay != 5 {
			t.Error("random bounds must survive")
		}
	})

	t.Run("fixed clears random bounds", func(t *testing.T) {
		t.Parallel()
		ls := LoopSettings{Loops: 1, Delay: 10, MinDelay: 1, MaxDelay: 5}
		ls.Normalize()
		if ls.MinDelay != 0 || ls.MaxDelay != 0 {
			t.Error("random bounds must be cleared in fixed mode")
		}
		if ls.Delay != 10 {
			t.Errorf("Delay = %g, want 10", ls.Delay)
		}
	})
}

func TestJobStatusTerminal(t *testing.T) {
	t.Parallel()

	terminal := []JobStatus{StatusSuccess, StatusFailed, StatusStopped, StatusUnknown}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}

	active := []JobStatus{StatusPending, StatusRunning, StatusStopping}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestEngagementRuleJSONFields(t *testing.T) {
	t.Parallel()

	fixed := 100
	rule := EngagementRule{
		Type:          "Likes",
		Platform:      "Instagram",
		FixedQuantity: &fixed,
		Loops:         2,
	}

	data, err := json.Marshal(rule)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"type", "use_random_quantity", "fixed_quantity", "min_quantity", "max_quantity", "loops"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing wire field %q", key)
		}
	}
	if raw["fixed_quantity"].(float64) != 100 {
		t.Errorf("fixed_quantity = %v", raw["fixed_quantity"])
	}
	if raw["min_quantity"] != nil {
		t.Errorf("min_quantity = %v, want null in fixed mode", raw["min_quantity"])
	}
}

func TestMonitoringTargetJSONFields(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"id": "t-1",
		"target_username": "promoter",
		"promotion_profile_name": "growth",
		"is_running": true,
		"last_pushed_post_url": "https://example.com/p/9"
	}`)

	var target MonitoringTarget
	if err := json.Unmarshal(data, &target); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if target.TargetUsername != "promoter" || !target.IsRunning {
		t.Errorf("target = %+v", target)
	}
	if target.LastChecked != nil {
		t.Error("absent timestamp should stay nil")
	}
}

func TestJobKindString(t *testing.T) {
	t.Parallel()

	if JobSingleShot.String() != "single" {
		t.Errorf("JobSingleShot = %q", JobSingleShot.String())
	}
	if JobProfileBased.String() != "profile" {
		t.Errorf("JobProfileBased = %q", JobProfileBased.String())
	}
}
