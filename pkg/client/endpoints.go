package client

import (
	"context"
	"net/http"
	"net/url"

	"promoctl/pkg/api"
	"promoctl/pkg/models"
)

// Profiles fetches the full profile set keyed by name.
func (c *Client) Profiles(ctx context.Context) (map[string]models.ProfileSettings, error) {
	var out map[string]models.ProfileSettings
	if err := c.get(ctx, "/api/profiles", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]models.ProfileSettings)
	}
	return out, nil
}

// SaveProfile upserts a profile and returns the authoritative profile set.
func (c *Client) SaveProfile(ctx context.Context, req api.SaveProfileRequest) (api.ProfilesResponse, error) {
	var out api.ProfilesResponse
	err := c.do(ctx, http.MethodPost, "/api/profiles", req, &out)
	return out, err
}

// DeleteProfile removes a profile by name and returns the remaining set.
func (c *Client) DeleteProfile(ctx context.Context, name string) (api.ProfilesResponse, error) {
	var out api.ProfilesResponse
	err := c.do(ctx, http.MethodDelete, "/api/profiles/"+url.PathEscape(name), nil, &out)
	return out, err
}

// Minimums fetches the raw minimum-quantity table. Keys are in the backend's
// legacy composite string format; parse them with the minimums package.
func (c *Client) Minimums(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if err := c.get(ctx, "/api/config/minimums", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartSinglePromo schedules a one-off promotion.
func (c *Client) StartSinglePromo(ctx context.Context, req api.StartSingleRequest) (api.StartResponse, error) {
	var out api.StartResponse
	err := c.do(ctx, http.MethodPost, "/api/start_single_promo", req, &out)
	return out, err
}

// StartPromo schedules a profile-based promotion.
func (c *Client) StartPromo(ctx context.Context, req api.StartProfileRequest) (api.StartResponse, error) {
	var out api.StartResponse
	err := c.do(ctx, http.MethodPost, "/api/start_promo", req, &out)
	return out, err
}

// StopPromo requests a cooperative stop of a running job.
func (c *Client) StopPromo(ctx context.Context, jobID string) (api.StopResponse, error) {
	var out api.StopResponse
	err := c.do(ctx, http.MethodPost, "/api/stop_promo", api.StopRequest{JobID: jobID}, &out)
	return out, err
}

// JobStatus fetches the scheduler's view of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (api.JobStatusResponse, error) {
	var out api.JobStatusResponse
	err := c.get(ctx, "/api/job_status/"+url.PathEscape(jobID), &out)
	return out, err
}

// MonitoringSettings fetches the background monitor configuration.
func (c *Client) MonitoringSettings(ctx context.Context) (api.SettingsResponse, error) {
	var out api.SettingsResponse
	err := c.get(ctx, "/api/monitoring/settings", &out)
	return out, err
}

// UpdateMonitoringSettings stores the background monitor configuration.
func (c *Client) UpdateMonitoringSettings(ctx context.Context, s models.MonitoringSettings) (api.SettingsResponse, error) {
	var out api.SettingsResponse
	err := c.do(ctx, http.MethodPut, "/api/monitoring/settings", s, &out)
	return out, err
}

// MonitoringTargets fetches the full monitoring target list.
func (c *Client) MonitoringTargets(ctx context.Context) (api.TargetsResponse, error) {
	var out api.TargetsResponse
	err := c.get(ctx, "/api/monitoring/targets", &out)
	return out, err
}

// AddMonitoringTarget registers a target and returns the authoritative list.
func (c *Client) AddMonitoringTarget(ctx context.Context, req api.AddTargetRequest) (api.TargetsResponse, error) {
	var out api.TargetsResponse
	err := c.do(ctx, http.MethodPost, "/api/monitoring/targets", req, &out)
	return out, err
}

// UpdateMonitoringTarget toggles a target's running state and returns the
// authoritative list.
func (c *Client) UpdateMonitoringTarget(ctx context.Context, id string, running bool) (api.TargetsResponse, error) {
	var out api.TargetsResponse
	err := c.do(ctx, http.MethodPut, "/api/monitoring/targets/"+url.PathEscape(id), api.UpdateTargetRequest{IsRunning: running}, &out)
	return out, err
}

// DeleteMonitoringTarget removes a target and returns the authoritative list.
func (c *Client) DeleteMonitoringTarget(ctx context.Context, id string) (api.TargetsResponse, error) {
	var out api.TargetsResponse
	err := c.do(ctx, http.MethodDelete, "/api/monitoring/targets/"+url.PathEscape(id), nil, &out)
	return out, err
}

// TestGetLatestPost runs a one-off scrape of a target account.
func (c *Client) TestGetLatestPost(ctx context.Context, username string) (api.LatestPostResponse, error) {
	var out api.LatestPostResponse
	err := c.do(ctx, http.MethodPost, "/api/monitoring/test_get_latest_post", map[string]string{"target_username": username}, &out)
	return out, err
}

// Username fetches the stored operator username.
func (c *Client) Username(ctx context.Context) (api.UsernameResponse, error) {
	var out api.UsernameResponse
	err := c.get(ctx, "/api/username", &out)
	return out, err
}

// SetUsername stores the operator username.
func (c *Client) SetUsername(ctx context.Context, username string) (api.UsernameResponse, error) {
	var out api.UsernameResponse
	err := c.do(ctx, http.MethodPost, "/api/username", api.SetUsernameRequest{Username: username}, &out)
	return out, err
}
