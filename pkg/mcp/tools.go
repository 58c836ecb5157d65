package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolDefinitions returns all tool definitions for the promoctl MCP server.
func ToolDefinitions() []mcp.Tool {
	return []mcp.Tool{
		// Profile tools
		toolProfiles(),
		toolProfile(),
		toolDeleteProfile(),

		// Promotion tools
		toolStartSingle(),
		toolStartProfile(),
		toolStopJob(),
		toolJobStatus(),

		// Configuration tools
		toolMinimums(),
		toolUsername(),

		// Monitoring tools
		toolMonitorTargets(),
		toolMonitorAdd(),
		toolMonitorToggle(),
		toolMonitorRemove(),
		toolMonitorSettings(),
		toolTestLatestPost(),
	}
}

// === Profile Tools ===

func toolProfiles() mcp.Tool {
	return mcp.NewTool("promo_profiles",
		mcp.WithDescription("List all saved promotion profiles with their engagement rules and loop settings."),
	)
}

func toolProfile() mcp.Tool {
	return mcp.NewTool("promo_profile",
		mcp.WithDescription("Show one promotion profile in detail"),
		mcp.WithString("name",
			mcp.Description("Profile name"),
			mcp.Required(),
		),
	)
}

func toolDeleteProfile() mcp.Tool {
	return mcp.NewTool("promo_delete_profile",
		mcp.WithDescription("Delete a saved promotion profile"),
		mcp.WithString("name",
			mcp.Description("Profile name"),
			mcp.Required(),
		),
	)
}

// === Promotion Tools ===

func toolStartSingle() mcp.Tool {
	return mcp.NewTool("promo_start_single",
		mcp.WithDescription("Schedule a one-off promotion for a post link. The order must meet the platform's minimum quantity."),
		mcp.WithString("platform",
			mcp.Description("Platform name (e.g. Instagram, TikTok)"),
			mcp.Required(),
		),
		mcp.WithString("engagement",
			mcp.Description("Engagement type (e.g. Likes, Views)"),
			mcp.Required(),
		),
		mcp.WithString("link",
			mcp.Description("Post link, must start with https://"),
			mcp.Required(),
		),
		mcp.WithNumber("quantity",
			mcp.Description("Order quantity"),
			mcp.Required(),
		),
	)
}

func toolStartProfile() mcp.Tool {
	return mcp.NewTool("promo_start_profile",
		mcp.WithDescription(`Schedule a profile-based promotion for a post link.

The job runs server-side and is polled until it reaches a terminal state. Only one profile-based job is tracked at a time; starting a second one supersedes the first in this session (the first keeps running server-side).`),
		mcp.WithString("profile",
			mcp.Description("Name of a saved promotion profile"),
			mcp.Required(),
		),
		mcp.WithString("link",
			mcp.Description("Post link, must start with https://"),
			mcp.Required(),
		),
	)
}

func toolStopJob() mcp.Tool {
	return mcp.NewTool("promo_stop",
		mcp.WithDescription("Request a cooperative stop of a running job. The job resolves through polling, not through this call."),
		mcp.WithString("job_id",
			mcp.Description("Job id returned by promo_start_single or promo_start_profile"),
			mcp.Required(),
		),
	)
}

func toolJobStatus() mcp.Tool {
	return mcp.NewTool("promo_job_status",
		mcp.WithDescription("Get the current status of a scheduled job"),
		mcp.WithString("job_id",
			mcp.Description("Job id"),
			mcp.Required(),
		),
	)
}

// === Configuration Tools ===

func toolMinimums() mcp.Tool {
	return mcp.NewTool("promo_minimums",
		mcp.WithDescription("Show the minimum order quantity for every platform and engagement type"),
	)
}

func toolUsername() mcp.Tool {
	return mcp.NewTool("promo_username",
		mcp.WithDescription("Get or set the operator's account username"),
		mcp.WithString("value",
			mcp.Description("New username (omit to read the current one)"),
		),
	)
}

// === Monitoring Tools ===

func toolMonitorTargets() mcp.Tool {
	return mcp.NewTool("promo_monitor_targets",
		mcp.WithDescription("List the accounts being monitored for new posts"),
	)
}

func toolMonitorAdd() mcp.Tool {
	return mcp.NewTool("promo_monitor_add",
		mcp.WithDescription("Start monitoring an account: new posts are auto-promoted with the given profile"),
		mcp.WithString("username",
			mcp.Description("Account username (with or without @)"),
			mcp.Required(),
		),
		mcp.WithString("profile",
			mcp.Description("Promotion profile used for new posts"),
			mcp.Required(),
		),
	)
}

func toolMonitorToggle() mcp.Tool {
	return mcp.NewTool("promo_monitor_toggle",
		mcp.WithDescription("Pause or resume monitoring for a target"),
		mcp.WithString("target_id",
			mcp.Description("Target id from promo_monitor_targets"),
			mcp.Required(),
		),
		mcp.WithBoolean("running",
			mcp.Description("true to resume, false to pause"),
			mcp.Required(),
		),
	)
}

func toolMonitorRemove() mcp.Tool {
	return mcp.NewTool("promo_monitor_remove",
		mcp.WithDescription("Stop monitoring an account and forget it"),
		mcp.WithString("target_id",
			mcp.Description("Target id from promo_monitor_targets"),
			mcp.Required(),
		),
	)
}

func toolMonitorSettings() mcp.Tool {
	return mcp.NewTool("promo_monitor_settings",
		mcp.WithDescription("Get or set the background monitor polling interval"),
		mcp.WithNumber("interval_seconds",
			mcp.Description("New polling interval in seconds, minimum 30 (omit to read)"),
		),
	)
}

func toolTestLatestPost() mcp.Tool {
	return mcp.NewTool("promo_test_latest_post",
		mcp.WithDescription("Scrape an account once and return its latest post, without promoting anything"),
		mcp.WithString("username",
			mcp.Description("Account username (with or without @)"),
			mcp.Required(),
		),
	)
}
