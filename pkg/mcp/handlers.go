package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"promoctl/pkg/api"
	"promoctl/pkg/app"
	"promoctl/pkg/models"
)

// Handlers contains all tool handlers for the promoctl MCP server.
type Handlers struct {
	env *app.App
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *app.App) *Handlers {
	return &Handlers{env: env}
}

// === Profile Handlers ===

// HandleProfiles handles the promo_profiles tool.
func (h *Handlers) HandleProfiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := h.env.Profiles.LoadAll(ctx)
	text := FormatProfileList(h.env.Profiles.Names(), all)
	return mcp.NewToolResultText(text), nil
}

// HandleProfile handles the promo_profile tool.
func (h *Handlers) HandleProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	settings, ok := h.env.Profiles.Get(name)
	if !ok {
		// Cache may be stale; refresh once before giving up.
		h.env.Profiles.LoadAll(ctx)
		settings, ok = h.env.Profiles.Get(name)
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no profile named %q", name)), nil
	}

	return mcp.NewToolResultText(FormatProfile(name, settings)), nil
}

// HandleDeleteProfile handles the promo_delete_profile tool.
func (h *Handlers) HandleDeleteProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	remaining, err := h.env.Profiles.Delete(ctx, name)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to delete profile", err), nil
	}

	text := fmt.Sprintf("Deleted profile %q. %d profiles remain.", name, len(remaining))
	return mcp.NewToolResultText(text), nil
}

// === Promotion Handlers ===

// HandleStartSingle handles the promo_start_single tool.
func (h *Handlers) HandleStartSingle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	platform, err := req.RequireString("platform")
	if err != nil {
		return mcp.NewToolResultError("platform is required"), nil
	}
	engagement, err := req.RequireString("engagement")
	if err != nil {
		return mcp.NewToolResultError("engagement is required"), nil
	}
	link, err := req.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError("link is required"), nil
	}
	quantity := req.GetInt("quantity", 0)

	jobID, err := h.env.Jobs.StartSingle(ctx, api.StartSingleRequest{
		Platform:   platform,
		Engagement: engagement,
		Link:       link,
		Quantity:   quantity,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to schedule promotion", err), nil
	}

	text := fmt.Sprintf("Scheduled %d %s on %s for %s\nJob ID: %s", quantity, engagement, platform, link, jobID)
	return mcp.NewToolResultText(text), nil
}

// HandleStartProfile handles the promo_start_profile tool.
func (h *Handlers) HandleStartProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := req.RequireString("profile")
	if err != nil {
		return mcp.NewToolResultError("profile is required"), nil
	}
	link, err := req.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError("link is required"), nil
	}

	jobID, err := h.env.Jobs.StartProfile(ctx, profile, link)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to schedule promotion", err), nil
	}

	text := fmt.Sprintf("Scheduled profile %q for %s\nJob ID: %s\nThe job is being polled; use promo_job_status to follow it.", profile, link, jobID)
	return mcp.NewToolResultText(text), nil
}

// HandleStopJob handles the promo_stop tool.
func (h *Handlers) HandleStopJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := req.RequireString("job_id")
	if err != nil {
		return mcp.NewToolResultError("job_id is required"), nil
	}

	// Jobs started in this session go through the controller, which keeps
	// its stop gating consistent. Anything else is stopped directly.
	if h.env.Jobs.TrackedJob() == jobID {
		if err := h.env.Jobs.Stop(ctx, jobID); err != nil {
			return mcp.NewToolResultErrorFromErr("Failed to stop job", err), nil
		}
	} else {
		resp, err := h.env.Client.StopPromo(ctx, jobID)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("Failed to stop job", err), nil
		}
		if !resp.OK() {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to stop job: %s", resp.Message)), nil
		}
	}

	text := fmt.Sprintf("Stop requested for job %s. The job resolves through polling and may take a moment to stop.", jobID)
	return mcp.NewToolResultText(text), nil
}

// HandleJobStatus handles the promo_job_status tool.
func (h *Handlers) HandleJobStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := req.RequireString("job_id")
	if err != nil {
		return mcp.NewToolResultError("job_id is required"), nil
	}

	resp, err := h.env.Client.JobStatus(ctx, jobID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to fetch job status", err), nil
	}
	if !resp.Success {
		return mcp.NewToolResultError(fmt.Sprintf("Job %s is unknown to the scheduler", jobID)), nil
	}

	text := fmt.Sprintf("Job %s: %s", jobID, resp.Status)
	if models.JobStatus(resp.Status).Terminal() {
		text += " (final)"
	}
	return mcp.NewToolResultText(text), nil
}

// === Configuration Handlers ===

// HandleMinimums handles the promo_minimums tool.
func (h *Handlers) HandleMinimums(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatMinimums(h.env.Minimums)), nil
}

// HandleUsername handles the promo_username tool.
func (h *Handlers) HandleUsername(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value := strings.TrimPrefix(strings.TrimSpace(req.GetString("value", "")), "@")

	if value != "" {
		resp, err := h.env.Client.SetUsername(ctx, value)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("Failed to set username", err), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to set username: %s", resp.ErrorMessage())), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Username set to %s", value)), nil
	}

	resp, err := h.env.Client.Username(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to fetch username", err), nil
	}
	if !resp.Success {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch username: %s", resp.ErrorMessage())), nil
	}
	if resp.Username == "" {
		return mcp.NewToolResultText("No username stored."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Username: %s", resp.Username)), nil
}

// === Monitoring Handlers ===

// HandleMonitorTargets handles the promo_monitor_targets tool.
func (h *Handlers) HandleMonitorTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targets, err := h.env.Monitor.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to load targets", err), nil
	}
	return mcp.NewToolResultText(FormatTargets(targets)), nil
}

// HandleMonitorAdd handles the promo_monitor_add tool.
func (h *Handlers) HandleMonitorAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username is required"), nil
	}
	profile, err := req.RequireString("profile")
	if err != nil {
		return mcp.NewToolResultError("profile is required"), nil
	}

	if err := h.env.Monitor.Add(ctx, username, profile); err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to add target", err), nil
	}

	text := fmt.Sprintf("Now monitoring %s with profile %q.\n\n%s",
		strings.TrimPrefix(username, "@"), profile, FormatTargets(h.env.Monitor.Targets()))
	return mcp.NewToolResultText(text), nil
}

// HandleMonitorToggle handles the promo_monitor_toggle tool.
func (h *Handlers) HandleMonitorToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetID, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError("target_id is required"), nil
	}
	running := req.GetBool("running", false)

	if err := h.env.Monitor.Toggle(ctx, targetID, running); err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to toggle target", err), nil
	}

	verb := "paused"
	if running {
		verb = "resumed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Monitoring %s for target %s.", verb, targetID)), nil
}

// HandleMonitorRemove handles the promo_monitor_remove tool.
func (h *Handlers) HandleMonitorRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetID, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError("target_id is required"), nil
	}

	if err := h.env.Monitor.Remove(ctx, targetID); err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to remove target", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed target %s.", targetID)), nil
}

// HandleMonitorSettings handles the promo_monitor_settings tool.
func (h *Handlers) HandleMonitorSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	interval := req.GetInt("interval_seconds", 0)

	if interval > 0 {
		settings := models.MonitoringSettings{PollingIntervalSeconds: interval}
		if err := h.env.Monitor.SaveSettings(ctx, settings); err != nil {
			return mcp.NewToolResultErrorFromErr("Failed to save settings", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Polling interval set to %d seconds.", interval)), nil
	}

	settings, err := h.env.Monitor.LoadSettings(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to load settings", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Polling interval: %d seconds.", settings.PollingIntervalSeconds)), nil
}

// HandleTestLatestPost handles the promo_test_latest_post tool.
func (h *Handlers) HandleTestLatestPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username is required"), nil
	}

	resp, err := h.env.Monitor.TestLatestPost(ctx, username)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Scrape test failed", err), nil
	}
	return mcp.NewToolResultText(FormatLatestPost(strings.TrimPrefix(username, "@"), resp)), nil
}
