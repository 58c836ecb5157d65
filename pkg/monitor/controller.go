// Package monitor manages the monitored-account list and the background
// monitor's settings. The server's returned list is the single source of
// truth: after every mutation the whole list is replaced, never patched,
// so the view cannot drift from server state.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"promoctl/pkg/api"
	"promoctl/pkg/client"
	"promoctl/pkg/models"
	"promoctl/pkg/status"
)

// Transient status keys used by the controller.
const (
	KeyTargetList  = "monitor-list-status"
	KeyAddTarget   = "add-target-status"
	KeySettings    = "settings-status"
	KeyScrapeTest  = "test-scrape-result"
	addControlName = "add-target"
)

// MinPollingIntervalSeconds is the smallest accepted monitor interval.
const MinPollingIntervalSeconds = 30

// Controller drives monitoring-target CRUD and start/stop toggling.
type Controller struct {
	client   *client.Client
	reporter *status.Reporter
	log      *logrus.Logger

	mu       sync.Mutex
	targets  []models.MonitoringTarget
	inFlight map[string]bool
	subs     []func([]models.MonitoringTarget)
}

// Option configures the controller.
type Option func(*Controller)

// WithStatusReporter routes per-action messages to the transient status
// channel.
func WithStatusReporter(r *status.Reporter) Option {
	return func(c *Controller) { c.reporter = r }
}

// WithLogger sets the structured logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController creates a controller with an empty target list.
func NewController(c *client.Client, opts ...Option) *Controller {
	ctrl := &Controller{
		client:   c,
		log:      logrus.New(),
		inFlight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// Subscribe registers a callback invoked with the full list after every
// replacement.
func (c *Controller) Subscribe(fn func([]models.MonitoringTarget)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Targets returns a copy of the current list.
func (c *Controller) Targets() []models.MonitoringTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.MonitoringTarget, len(c.targets))
	copy(out, c.targets)
	return out
}

// Refresh re-fetches the full target list. On failure the list is cleared
// rather than left stale.
func (c *Controller) Refresh(ctx context.Context) ([]models.MonitoringTarget, error) {
	resp, err := c.client.MonitoringTargets(ctx)
	if err != nil {
		c.transient(KeyTargetList, "Error loading targets.", status.LevelDanger)
		c.replace(nil)
		return nil, err
	}
	if !resp.Success {
		c.transient(KeyTargetList, orDefault(resp.ErrorMessage(), "Failed to load targets."), status.LevelDanger)
		c.replace(nil)
		return nil, fmt.Errorf("load targets: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	c.replace(resp.Targets)
	return c.Targets(), nil
}

// Add registers a new monitoring target bound to a promotion profile. A
// leading @ on the username is stripped.
func (c *Controller) Add(ctx context.Context, username, profileName string) error {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return &ValidationError{Field: "target_username", Reason: "target username cannot be empty"}
	}
	if profileName == "" {
		return &ValidationError{Field: "promotion_profile_name", Reason: "a promotion profile must be selected"}
	}
	if !c.acquire(addControlName) {
		return fmt.Errorf("add target: another add is already in flight")
	}
	defer c.release(addControlName)

	c.sticky(KeyAddTarget, fmt.Sprintf("Adding target %s...", username))

	resp, err := c.client.AddMonitoringTarget(ctx, api.AddTargetRequest{
		TargetUsername:       username,
		PromotionProfileName: profileName,
	})
	if err != nil {
		c.transient(KeyAddTarget, "Error adding target.", status.LevelDanger)
		return err
	}
	if !resp.Success {
		c.transient(KeyAddTarget, orDefault(resp.ErrorMessage(), "Failed to add target."), status.LevelDanger)
		return fmt.Errorf("add target: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	c.replace(resp.Targets)
	c.transient(KeyAddTarget, fmt.Sprintf("Successfully added %s.", username), status.LevelSuccess)
	return nil
}

// Toggle starts or stops monitoring for a target. The acted-upon control is
// disabled for the duration; on failure it is re-enabled and the list is left
// untouched.
func (c *Controller) Toggle(ctx context.Context, id string, running bool) error {
	if !c.acquire(id) {
		return fmt.Errorf("toggle target: an action for %s is already in flight", id)
	}
	defer c.release(id)

	action := "Stopping"
	if running {
		action = "Starting"
	}
	c.sticky(KeyTargetList, fmt.Sprintf("%s monitoring for target %s...", action, id))

	resp, err := c.client.UpdateMonitoringTarget(ctx, id, running)
	if err != nil {
		c.transient(KeyTargetList, fmt.Sprintf("Error %s monitoring.", strings.ToLower(action)), status.LevelDanger)
		return err
	}
	if !resp.Success {
		c.transient(KeyTargetList, orDefault(resp.ErrorMessage(), fmt.Sprintf("Failed to %s monitoring.", strings.ToLower(action))), status.LevelDanger)
		return fmt.Errorf("toggle target: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	c.replace(resp.Targets)
	verb := "stopped"
	if running {
		verb = "started"
	}
	c.transient(KeyTargetList, fmt.Sprintf("Successfully %s monitoring for target %s.", verb, id), status.LevelSuccess)
	return nil
}

// Remove deletes a target.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if !c.acquire(id) {
		return fmt.Errorf("remove target: an action for %s is already in flight", id)
	}
	defer c.release(id)

	c.sticky(KeyTargetList, fmt.Sprintf("Removing target %s...", id))

	resp, err := c.client.DeleteMonitoringTarget(ctx, id)
	if err != nil {
		c.transient(KeyTargetList, "Error removing target.", status.LevelDanger)
		return err
	}
	if !resp.Success {
		c.transient(KeyTargetList, orDefault(resp.ErrorMessage(), "Failed to remove target."), status.LevelDanger)
		return fmt.Errorf("remove target: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	c.replace(resp.Targets)
	c.transient(KeyTargetList, fmt.Sprintf("Successfully removed target %s.", id), status.LevelSuccess)
	return nil
}

// LoadSettings fetches the background monitor settings.
func (c *Controller) LoadSettings(ctx context.Context) (models.MonitoringSettings, error) {
	resp, err := c.client.MonitoringSettings(ctx)
	if err != nil {
		c.transient(KeySettings, "Error loading settings.", status.LevelDanger)
		return models.MonitoringSettings{}, err
	}
	if !resp.Success {
		c.transient(KeySettings, orDefault(resp.ErrorMessage(), "Failed to load settings."), status.LevelDanger)
		return models.MonitoringSettings{}, fmt.Errorf("load settings: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	return resp.Settings, nil
}

// SaveSettings stores the background monitor settings.
func (c *Controller) SaveSettings(ctx context.Context, s models.MonitoringSettings) error {
	if s.PollingIntervalSeconds < MinPollingIntervalSeconds {
		return &ValidationError{
			Field:  "polling_interval_seconds",
			Reason: fmt.Sprintf("polling interval must be at least %d seconds", MinPollingIntervalSeconds),
		}
	}
	c.sticky(KeySettings, "Saving...")
	resp, err := c.client.UpdateMonitoringSettings(ctx, s)
	if err != nil {
		c.transient(KeySettings, "Error saving settings.", status.LevelDanger)
		return err
	}
	if !resp.Success {
		c.transient(KeySettings, orDefault(resp.ErrorMessage(), "Failed to save settings."), status.LevelDanger)
		return fmt.Errorf("save settings: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	c.transient(KeySettings, "Interval saved successfully!", status.LevelSuccess)
	return nil
}

// TestLatestPost runs a one-off scrape for a username and returns the found
// post.
func (c *Controller) TestLatestPost(ctx context.Context, username string) (api.LatestPostResponse, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return api.LatestPostResponse{}, &ValidationError{Field: "target_username", Reason: "please enter a username to test"}
	}
	c.sticky(KeyScrapeTest, fmt.Sprintf("Testing scrape for %s...", username))

	resp, err := c.client.TestGetLatestPost(ctx, username)
	if err != nil {
		c.transient(KeyScrapeTest, "Error during test.", status.LevelDanger)
		return api.LatestPostResponse{}, err
	}
	if !resp.Success {
		c.transient(KeyScrapeTest, fmt.Sprintf("Failed: %s", orDefault(resp.ErrorMessage(), "could not get post info")), status.LevelDanger)
		return resp, fmt.Errorf("test latest post: %s", orDefault(resp.ErrorMessage(), "backend returned failure"))
	}
	c.transient(KeyScrapeTest, fmt.Sprintf("Success! Found: %s", resp.URL), status.LevelSuccess)
	return resp, nil
}

// InFlight reports whether an action for the named control is running.
func (c *Controller) InFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[id]
}

func (c *Controller) acquire(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[id] {
		return false
	}
	c.inFlight[id] = true
	return true
}

func (c *Controller) release(id string) {
	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()
}

func (c *Controller) replace(targets []models.MonitoringTarget) {
	sorted := make([]models.MonitoringTarget, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TargetUsername < sorted[j].TargetUsername
	})
	c.mu.Lock()
	c.targets = sorted
	subs := make([]func([]models.MonitoringTarget), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(sorted)
	}
}

func (c *Controller) transient(key, text string, level status.Level) {
	if c.reporter != nil {
		c.reporter.Transient(key, text, level, status.DefaultTransientDuration)
	}
}

// sticky shows a message that stays until the action finishes.
func (c *Controller) sticky(key, text string) {
	if c.reporter != nil {
		c.reporter.Transient(key, text, status.LevelInfo, 0)
	}
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// ValidationError is a client-side rejection; the request never reached the
// network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
