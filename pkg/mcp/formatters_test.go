package mcp

import (
	"strings"
	"testing"
	"time"

	"promoctl/pkg/api"
	"promoctl/pkg/minimums"
	"promoctl/pkg/models"
)

func TestFormatProfile(t *testing.T) {
	t.Parallel()

	fixed := 100
	minQ, maxQ := 50, 200
	settings := models.ProfileSettings{
		Engagements: []models.EngagementRule{
			{Type: "Likes", Platform: "Instagram", FixedQuantity: &fixed, Loops: 2},
			{Type: "Views", Platform: "Instagram", UseRandomQuantity: true, MinQuantity: &minQ, MaxQuantity: &maxQ, Loops: 1},
		},
		LoopSettings: models.LoopSettings{Loops: 3, Delay: 5},
	}

	text := FormatProfile("growth", settings)

	for _, want := range []string{
		"Profile: growth",
		"Likes (Instagram): fixed 100, loops 2",
		"Views (Instagram): random 50-200, loops 1",
		"Runs: 3, delay 5 min",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestFormatProfileRandomDelay(t *testing.T) {
	t.Parallel()

	text := FormatProfile("bursty", models.ProfileSettings{
		LoopSettings: models.LoopSettings{Loops: 2, RandomDelay: true, MinDelay: 1, MaxDelay: 10},
	})

	if !strings.Contains(text, "delay 1-10 min (random)") {
		t.Errorf("output = %q", text)
	}
	if !strings.Contains(text, "No engagement rules configured.") {
		t.Errorf("empty rule list not mentioned:\n%s", text)
	}
}

func TestFormatProfileList(t *testing.T) {
	t.Parallel()

	all := map[string]models.ProfileSettings{
		"a": {LoopSettings: models.LoopSettings{Loops: 1}},
		"b": {Engagements: []models.EngagementRule{{Type: "Likes"}}, LoopSettings: models.LoopSettings{Loops: 2}},
	}

	text := FormatProfileList([]string{"a", "b"}, all)
	if !strings.Contains(text, "Profiles (2)") {
		t.Errorf("header missing:\n%s", text)
	}
	if !strings.Contains(text, "b: 1 rules, 2 runs") {
		t.Errorf("row missing:\n%s", text)
	}

	if got := FormatProfileList(nil, nil); got != "No profiles saved." {
		t.Errorf("empty list = %q", got)
	}
}

func TestFormatTarget(t *testing.T) {
	t.Parallel()

	checked := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	target := models.MonitoringTarget{
		ID:                   "t-1",
		TargetUsername:       "promoter",
		PromotionProfileName: "growth",
		IsRunning:            true,
		LastChecked:          &checked,
		LastPushedPostURL:    "https://example.com/p/9",
	}

	text := FormatTarget(target)
	for _, want := range []string{
		"@promoter (t-1)",
		"Profile: growth",
		"State: running",
		"Last checked: 2026-08-30T12:00:00Z",
		"Last promoted post: https://example.com/p/9",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestFormatTargetMinimal(t *testing.T) {
	t.Parallel()

	text := FormatTarget(models.MonitoringTarget{ID: "t-2", TargetUsername: "quiet", PromotionProfileName: "p"})
	if !strings.Contains(text, "State: stopped") {
		t.Errorf("output = %q", text)
	}
	if strings.Contains(text, "Last checked") {
		t.Error("absent timestamp should not be rendered")
	}
}

func TestFormatTargets(t *testing.T) {
	t.Parallel()

	if got := FormatTargets(nil); got != "No accounts are being monitored." {
		t.Errorf("empty = %q", got)
	}

	text := FormatTargets([]models.MonitoringTarget{
		{ID: "a", TargetUsername: "one", PromotionProfileName: "p"},
		{ID: "b", TargetUsername: "two", PromotionProfileName: "p"},
	})
	if !strings.Contains(text, "Monitored accounts (2)") {
		t.Errorf("header missing:\n%s", text)
	}
	if !strings.Contains(text, "--- Target 2 ---") {
		t.Errorf("separator missing:\n%s", text)
	}
}

func TestFormatMinimums(t *testing.T) {
	t.Parallel()

	table := minimums.New(map[minimums.Key]int{
		{Platform: "Instagram", Engagement: "Likes"}: 50,
		{Platform: "Instagram", Engagement: "Views"}: 100,
		{Platform: "TikTok", Engagement: "Views"}:    500,
	})

	text := FormatMinimums(table)
	for _, want := range []string{"Instagram:", "  Likes: 50", "TikTok:", "  Views: 500"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if got := FormatMinimums(minimums.Empty()); !strings.Contains(got, "defaults to 1") {
		t.Errorf("empty table = %q", got)
	}
}

func TestFormatLatestPost(t *testing.T) {
	t.Parallel()

	text := FormatLatestPost("promoter", api.LatestPostResponse{
		URL:          "https://example.com/p/1",
		TimestampISO: "2026-08-30T10:00:00Z",
	})
	if !strings.Contains(text, "Latest post for @promoter:") {
		t.Errorf("output = %q", text)
	}
	if !strings.Contains(text, "Posted: 2026-08-30T10:00:00Z") {
		t.Errorf("timestamp missing:\n%s", text)
	}

	short := FormatLatestPost("x", api.LatestPostResponse{URL: "https://example.com/p/2"})
	if strings.Contains(short, "Posted:") {
		t.Error("absent timestamp should not be rendered")
	}
}
