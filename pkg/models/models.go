// Package models defines shared types used across the console and the
// scheduler API.
package models

import "time"

// ProfileSettings is a named, reusable bundle of engagement rules plus a
// loop/delay schedule. Profiles are keyed by name server-side; last write
// wins.
type ProfileSettings struct {
	Engagements  []EngagementRule `json:"engagements"`
	LoopSettings LoopSettings     `json:"loop_settings"`
}

// Profile pairs a profile name with its settings.
type Profile struct {
	Name     string          `json:"name"`
	Settings ProfileSettings `json:"settings"`
}

// EngagementRule is a per-engagement-type quantity policy. Exactly one of
// FixedQuantity or the MinQuantity/MaxQuantity pair is populated, selected by
// UseRandomQuantity.
type EngagementRule struct {
	Type              string `json:"type" validate:"required"`
	Platform          string `json:"platform,omitempty"`
	UseRandomQuantity bool   `json:"use_random_quantity"`
	FixedQuantity     *int   `json:"fixed_quantity"`
	MinQuantity       *int   `json:"min_quantity"`
	MaxQuantity       *int   `json:"max_quantity"`
	Loops             int    `json:"loops" validate:"gte=1"`
}

// LoopSettings schedules repeated runs of a profile. When RandomDelay is set
// the fixed Delay is cleared; otherwise MinDelay/MaxDelay carry no meaning.
type LoopSettings struct {
	Loops       int     `json:"loops" validate:"gte=1"`
	Delay       float64 `json:"delay" validate:"gte=0"`
	RandomDelay bool    `json:"random_delay"`
	MinDelay    float64 `json:"min_delay" validate:"gte=0"`
	MaxDelay    float64 `json:"max_delay" validate:"gte=0"`
}

// Normalize clears the fields that carry no meaning for the selected delay
// mode.
func (ls *LoopSettings) Normalize() {
	if ls.RandomDelay {
		ls.Delay = 0
	} else {
		ls.MinDelay = 0
		ls.MaxDelay = 0
	}
}

// JobKind distinguishes one-off promotions from profile-based ones.
type JobKind int

const (
	JobSingleShot JobKind = iota
	JobProfileBased
)

func (k JobKind) String() string {
	if k == JobSingleShot {
		return "single"
	}
	return "profile"
}

// JobStatus is the scheduler-owned job state. The console never writes a
// status, it only requests stops.
type JobStatus string

const (
	StatusPending  JobStatus = "pending"
	StatusRunning  JobStatus = "running"
	StatusStopping JobStatus = "stopping"
	StatusSuccess  JobStatus = "success"
	StatusFailed   JobStatus = "failed"
	StatusStopped  JobStatus = "stopped"
	StatusUnknown  JobStatus = "unknown"
)

// Terminal reports whether the status ends a job's lifecycle.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusStopped, StatusUnknown:
		return true
	}
	return false
}

// Job is a scheduled promotion as seen by the console.
type Job struct {
	ID      string    `json:"id"`
	Kind    JobKind   `json:"kind"`
	Status  JobStatus `json:"status"`
	Message string    `json:"message,omitempty"`
}

// MonitoringTarget is an account watched for new posts, bound to the profile
// used to auto-promote new content.
type MonitoringTarget struct {
	ID                   string     `json:"id"`
	TargetUsername       string     `json:"target_username"`
	PromotionProfileName string     `json:"promotion_profile_name"`
	IsRunning            bool       `json:"is_running"`
	LastChecked          *time.Time `json:"last_checked_timestamp,omitempty"`
	LastPushedPostURL    string     `json:"last_pushed_post_url,omitempty"`
}

// MonitoringSettings configures the background account monitor.
type MonitoringSettings struct {
	PollingIntervalSeconds int `json:"polling_interval_seconds" validate:"gte=30"`
}
