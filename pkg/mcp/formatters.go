package mcp

import (
	"fmt"
	"strings"
	"time"

	"promoctl/pkg/api"
	"promoctl/pkg/minimums"
	"promoctl/pkg/models"
)

// FormatProfile formats a profile for text display.
func FormatProfile(name string, settings models.ProfileSettings) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Profile: %s", name))

	if len(settings.Engagements) == 0 {
		lines = append(lines, "No engagement rules configured.")
	}
	for _, rule := range settings.Engagements {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s, loops %d",
			rule.Type, rule.Platform, formatRuleQuantity(rule), rule.Loops))
	}

	ls := settings.LoopSettings
	if ls.RandomDelay {
		lines = append(lines, fmt.Sprintf("Runs: %d, delay %g-%g min (random)", ls.Loops, ls.MinDelay, ls.MaxDelay))
	} else {
		lines = append(lines, fmt.Sprintf("Runs: %d, delay %g min", ls.Loops, ls.Delay))
	}

	return strings.Join(lines, "\n")
}

// FormatProfileList formats the full profile set, sorted by name.
func FormatProfileList(names []string, all map[string]models.ProfileSettings) string {
	if len(names) == 0 {
		return "No profiles saved."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("=== Profiles (%d) ===", len(names)))
	for _, name := range names {
		settings := all[name]
		lines = append(lines, fmt.Sprintf("- %s: %d rules, %d runs", name, len(settings.Engagements), settings.LoopSettings.Loops))
	}
	return strings.Join(lines, "\n")
}

func formatRuleQuantity(rule models.EngagementRule) string {
	if rule.UseRandomQuantity {
		if rule.MinQuantity != nil && rule.MaxQuantity != nil {
			return fmt.Sprintf("random %d-%d", *rule.MinQuantity, *rule.MaxQuantity)
		}
		return "random"
	}
	if rule.FixedQuantity != nil {
		return fmt.Sprintf("fixed %d", *rule.FixedQuantity)
	}
	return "not configured"
}

// FormatTarget formats one monitoring target for text display.
func FormatTarget(t models.MonitoringTarget) string {
	state := "stopped"
	if t.IsRunning {
		state = "running"
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("@%s (%s)", t.TargetUsername, t.ID))
	lines = append(lines, fmt.Sprintf("Profile: %s", t.PromotionProfileName))
	lines = append(lines, fmt.Sprintf("State: %s", state))
	if t.LastChecked != nil {
		lines = append(lines, fmt.Sprintf("Last checked: %s", t.LastChecked.Format(time.RFC3339)))
	}
	if t.LastPushedPostURL != "" {
		lines = append(lines, fmt.Sprintf("Last promoted post: %s", t.LastPushedPostURL))
	}
	return strings.Join(lines, "\n")
}

// FormatTargets formats the monitoring target list.
func FormatTargets(targets []models.MonitoringTarget) string {
	if len(targets) == 0 {
		return "No accounts are being monitored."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("=== Monitored accounts (%d) ===", len(targets)))
	for i, t := range targets {
		lines = append(lines, fmt.Sprintf("\n--- Target %d ---", i+1))
		lines = append(lines, FormatTarget(t))
	}
	return strings.Join(lines, "\n")
}

// FormatMinimums formats the minimum-quantity table grouped by platform.
func FormatMinimums(table *minimums.Table) string {
	platforms := table.Platforms()
	if len(platforms) == 0 {
		return "No minimums configured; every quantity defaults to 1."
	}

	var lines []string
	for _, platform := range platforms {
		lines = append(lines, fmt.Sprintf("%s:", platform))
		for _, engagement := range table.EngagementTypesFor(platform) {
			lines = append(lines, fmt.Sprintf("  %s: %d", engagement, table.MinimumFor(platform, engagement)))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatLatestPost formats a scrape-test result.
func FormatLatestPost(username string, resp api.LatestPostResponse) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Latest post for @%s:", username))
	lines = append(lines, resp.URL)
	if resp.TimestampISO != "" {
		lines = append(lines, fmt.Sprintf("Posted: %s", resp.TimestampISO))
	}
	return strings.Join(lines, "\n")
}
