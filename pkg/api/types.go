// Package api defines request/response types for the scheduler HTTP API.
package api

import "promoctl/pkg/models"

// ErrorFields is the error shape shared by every endpoint: a failed call
// carries its message in either "error" or "message".
type ErrorFields struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorMessage returns the first populated error field.
func (e ErrorFields) ErrorMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// ProfilesResponse is returned by profile mutations: the full authoritative
// profile set keyed by name.
type ProfilesResponse struct {
	ErrorFields
	Success  bool                              `json:"success"`
	Profiles map[string]models.ProfileSettings `json:"profiles"`
}

// SaveProfileRequest upserts a profile. OriginalName differs from Name on
// rename.
type SaveProfileRequest struct {
	Name         string                 `json:"name"`
	Settings     models.ProfileSettings `json:"settings"`
	OriginalName string                 `json:"original_name"`
}

// StartSingleRequest schedules a one-off promotion.
type StartSingleRequest struct {
	Platform   string `json:"platform"`
	Engagement string `json:"engagement"`
	Link       string `json:"link"`
	Quantity   int    `json:"quantity"`
}

// StartProfileRequest schedules a profile-based promotion.
type StartProfileRequest struct {
	ProfileName string `json:"profile_name"`
	Link        string `json:"link"`
}

// StartResponse is returned by both start endpoints.
type StartResponse struct {
	ErrorFields
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

// StopRequest asks the scheduler to stop a job. Stopping is cooperative: the
// job still resolves through polling, never through this call.
type StopRequest struct {
	JobID string `json:"job_id"`
}

// StopResponse uses a "status" discriminator instead of "success".
type StopResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the stop request was accepted.
func (r StopResponse) OK() bool { return r.Status == "success" }

// JobStatusResponse is the polled job state. Success false means the job is
// unknown to the scheduler.
type JobStatusResponse struct {
	ErrorFields
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// TargetsResponse carries the authoritative monitoring target list, returned
// by the list endpoint and by every target mutation.
type TargetsResponse struct {
	ErrorFields
	Success bool                      `json:"success"`
	Targets []models.MonitoringTarget `json:"targets"`
}

// AddTargetRequest registers an account for monitoring.
type AddTargetRequest struct {
	TargetUsername       string `json:"target_username"`
	PromotionProfileName string `json:"promotion_profile_name"`
}

// UpdateTargetRequest toggles monitoring for a target.
type UpdateTargetRequest struct {
	IsRunning bool `json:"is_running"`
}

// SettingsResponse wraps the monitoring settings.
type SettingsResponse struct {
	ErrorFields
	Success  bool                      `json:"success"`
	Settings models.MonitoringSettings `json:"settings"`
}

// LatestPostResponse is the result of a manual scrape test.
type LatestPostResponse struct {
	ErrorFields
	Success      bool   `json:"success"`
	URL          string `json:"url"`
	TimestampISO string `json:"timestamp_iso,omitempty"`
}

// UsernameResponse wraps the stored operator username.
type UsernameResponse struct {
	ErrorFields
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// SetUsernameRequest stores the operator username.
type SetUsernameRequest struct {
	Username string `json:"username"`
}
