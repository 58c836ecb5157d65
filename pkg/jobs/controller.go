// Package jobs tracks promotion jobs through their lifecycle: start, poll,
// stop, terminal resolution. The controller owns the single tracked-job slot;
// every read and write of it goes through controller methods so the stale-id
// guard is enforced in one place.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"promoctl/pkg/api"
	"promoctl/pkg/client"
	"promoctl/pkg/minimums"
	"promoctl/pkg/models"
	"promoctl/pkg/status"
)

// Status areas used by the controller.
const (
	AreaPromo       = "promo"
	AreaSinglePromo = "single-promo"
)

// DefaultPollInterval is how often a tracked job's status is fetched.
const DefaultPollInterval = 3 * time.Second

// State is the controller's view of the tracked job.
type State int

const (
	StateIdle State = iota
	StatePending
	StateRunning
	StateStopping
	StateSuccess
	StateFailed
	StateStopped
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a job's tracking.
func (s State) Terminal() bool {
	switch s {
	case StateSuccess, StateFailed, StateStopped, StateUnknown:
		return true
	}
	return false
}

func stateFromStatus(s models.JobStatus) State {
	switch s {
	case models.StatusPending:
		return StatePending
	case models.StatusRunning:
		return StateRunning
	case models.StatusStopping:
		return StateStopping
	case models.StatusSuccess:
		return StateSuccess
	case models.StatusFailed:
		return StateFailed
	case models.StatusStopped:
		return StateStopped
	default:
		return StateUnknown
	}
}

// RequestError is a client-side rejection; the request never reached the
// network.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string { return e.Reason }

// Event is emitted on every state change of the tracked job.
type Event struct {
	JobID   string
	State   State
	Message string
}

// Controller starts jobs and polls the tracked one to a terminal state
// exactly once. Launch controls and the stop control are mutually exclusive:
// never both enabled, and stop is disabled whenever no job is tracked.
type Controller struct {
	client   *client.Client
	table    *minimums.Table
	reporter *status.Reporter
	log      *logrus.Logger
	interval time.Duration

	mu            sync.Mutex
	trackedID     string
	state         State
	launchEnabled bool
	stopEnabled   bool
	cancelPoll    context.CancelFunc
	subs          []func(Event)
}

// Option configures the controller.
type Option func(*Controller)

// WithPollInterval overrides the poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithStatusReporter routes lifecycle messages to the status surfaces.
func WithStatusReporter(r *status.Reporter) Option {
	return func(c *Controller) { c.reporter = r }
}

// WithLogger sets the structured logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController creates an idle controller. The minimums table backs the
// client-side quantity check for single promotions; nil means every minimum
// is 1.
func NewController(c *client.Client, table *minimums.Table, opts ...Option) *Controller {
	ctrl := &Controller{
		client:        c,
		table:         table,
		log:           logrus.New(),
		interval:      DefaultPollInterval,
		state:         StateIdle,
		launchEnabled: true,
	}
	if ctrl.table == nil {
		ctrl.table = minimums.Empty()
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// Subscribe registers a callback for tracked-job state changes.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// TrackedJob returns the id of the job currently being tracked, if any.
func (c *Controller) TrackedJob() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trackedID
}

// State returns the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LaunchEnabled reports whether job-launch controls are enabled.
func (c *Controller) LaunchEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.launchEnabled
}

// StopEnabled reports whether the stop control is enabled.
func (c *Controller) StopEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopEnabled
}

// StartSingle schedules a one-off promotion. The quantity is checked against
// the minimums table before any network call. Single-shot jobs are resolved
// as soon as the scheduler accepts them; the backend exposes no intermediate
// states for them, so there is nothing to poll.
func (c *Controller) StartSingle(ctx context.Context, req api.StartSingleRequest) (string, error) {
	if err := c.validateSingle(req); err != nil {
		if c.reporter != nil {
			c.reporter.Persistent(AreaSinglePromo, err.Error(), status.LevelWarning)
		}
		return "", err
	}

	c.mu.Lock()
	c.launchEnabled = false
	c.mu.Unlock()
	c.report(AreaSinglePromo, fmt.Sprintf("Scheduling single promo: %d of %s...", req.Quantity, req.Engagement), status.LevelInfo)

	resp, err := c.client.StartSinglePromo(ctx, req)

	c.mu.Lock()
	c.launchEnabled = c.trackedID == ""
	c.mu.Unlock()

	if err != nil {
		return "", err
	}
	if !resp.Success || resp.JobID == "" {
		msg := resp.ErrorMessage()
		if msg == "" {
			msg = "Failed to schedule single promo."
		}
		c.report(AreaSinglePromo, msg, status.LevelDanger)
		return "", fmt.Errorf("start single promo: %s", msg)
	}

	msg := resp.Message
	if msg == "" {
		msg = "Single promo scheduled."
	}
	c.report(AreaSinglePromo, msg, status.LevelSuccess)
	c.emit(Event{JobID: resp.JobID, State: StateSuccess, Message: msg})
	return resp.JobID, nil
}

func (c *Controller) validateSingle(req api.StartSingleRequest) error {
	if req.Platform == "" || req.Engagement == "" {
		return &RequestError{Field: "engagement", Reason: "Please select platform and engagement type."}
	}
	if req.Link == "" {
		return &RequestError{Field: "link", Reason: "Please enter the link for the promotion."}
	}
	if !strings.HasPrefix(strings.ToLower(req.Link), "https://") {
		return &RequestError{Field: "link", Reason: "Link must start with https://"}
	}
	if req.Quantity <= 0 {
		return &RequestError{Field: "quantity", Reason: "Quantity must be a positive number."}
	}
	if min := c.table.MinimumFor(req.Platform, req.Engagement); req.Quantity < min {
		return &RequestError{
			Field:  "quantity",
			Reason: fmt.Sprintf("Minimum quantity for %s %s is %d.", req.Platform, req.Engagement, min),
		}
	}
	return nil
}

// StartProfile schedules a profile-based promotion and begins polling it. A
// previously tracked job is superseded: its poll ticks become no-ops, but it
// is not cancelled server-side.
func (c *Controller) StartProfile(ctx context.Context, profileName, link string) (string, error) {
	if profileName == "" {
		return "", &RequestError{Field: "profile", Reason: "Please select a profile."}
	}
	if link == "" {
		return "", &RequestError{Field: "link", Reason: "Please enter the link for the promotion."}
	}
	if !strings.HasPrefix(strings.ToLower(link), "https://") {
		return "", &RequestError{Field: "link", Reason: "Link must start with https://"}
	}

	c.mu.Lock()
	c.launchEnabled = false
	c.mu.Unlock()
	c.report(AreaPromo, fmt.Sprintf("Scheduling profile promo %q for %s...", profileName, link), status.LevelInfo)

	resp, err := c.client.StartPromo(ctx, api.StartProfileRequest{ProfileName: profileName, Link: link})
	if err != nil {
		c.mu.Lock()
		c.launchEnabled = c.trackedID == ""
		c.mu.Unlock()
		return "", err
	}
	if !resp.Success || resp.JobID == "" {
		msg := resp.ErrorMessage()
		if msg == "" {
			msg = "Failed to schedule profile promo."
		}
		c.mu.Lock()
		c.launchEnabled = c.trackedID == ""
		c.mu.Unlock()
		c.report(AreaPromo, msg, status.LevelDanger)
		return "", fmt.Errorf("start profile promo: %s", msg)
	}

	jobID := resp.JobID
	pollCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancelPoll != nil {
		c.cancelPoll()
	}
	c.trackedID = jobID
	c.state = StatePending
	c.launchEnabled = false
	c.stopEnabled = true
	c.cancelPoll = cancel
	c.mu.Unlock()

	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Profile promo %q scheduled. Job ID: %s", profileName, jobID)
	}
	c.report(AreaPromo, msg, status.LevelInfo)
	c.emit(Event{JobID: jobID, State: StatePending, Message: msg})

	go c.pollLoop(pollCtx, jobID)
	return jobID, nil
}

func (c *Controller) pollLoop(ctx context.Context, jobID string) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.pollOnce(ctx, jobID) {
				return
			}
		}
	}
}

// pollOnce fetches the job's status and applies one transition. It returns
// false when polling for this job id should cease. A tick for a job that is
// no longer tracked is a silent no-op, not an error: a stale timer may
// outlive a superseded job.
func (c *Controller) pollOnce(ctx context.Context, jobID string) bool {
	c.mu.Lock()
	if c.trackedID != jobID {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	resp, err := c.client.JobStatus(ctx, jobID)
	if err != nil {
		if client.IsTransport(err) {
			// Transient: keep polling, warn.
			c.log.WithError(err).WithField("job_id", jobID).Warn("job status poll failed, retrying")
			c.report(AreaPromo, fmt.Sprintf("Error checking job status for %s. Retrying...", jobID), status.LevelWarning)
			return true
		}
		// Structured failure: the scheduler does not know this job.
		c.resolve(jobID, StateUnknown, fmt.Sprintf("Job %s status unknown or finished.", jobID))
		return false
	}
	if !resp.Success {
		msg := resp.ErrorMessage()
		if msg == "" {
			msg = "Not Found"
		}
		c.resolve(jobID, StateUnknown, fmt.Sprintf("Job %s status unknown or finished (%s).", jobID, msg))
		return false
	}

	st := stateFromStatus(models.JobStatus(strings.ToLower(resp.Status)))
	message := resp.Message
	if message == "" {
		message = resp.Status
	}

	if st.Terminal() {
		c.resolve(jobID, st, fmt.Sprintf("Job %s finished with status: %s. %s", jobID, st, message))
		return false
	}

	c.mu.Lock()
	if c.trackedID != jobID {
		c.mu.Unlock()
		return false
	}
	c.state = st
	c.mu.Unlock()
	c.report(AreaPromo, fmt.Sprintf("Job status: %s - %s", st, message), status.LevelInfo)
	c.emit(Event{JobID: jobID, State: st, Message: message})
	return true
}

// resolve transitions a job to a terminal state exactly once. If a newer job
// has already superseded jobID, nothing happens.
func (c *Controller) resolve(jobID string, st State, message string) {
	c.mu.Lock()
	if c.trackedID != jobID {
		c.mu.Unlock()
		return
	}
	c.trackedID = ""
	c.state = st
	c.launchEnabled = true
	c.stopEnabled = false
	if c.cancelPoll != nil {
		c.cancelPoll()
		c.cancelPoll = nil
	}
	c.mu.Unlock()

	level := status.LevelWarning
	switch st {
	case StateSuccess:
		level = status.LevelSuccess
	case StateFailed:
		level = status.LevelDanger
	}
	c.report(AreaPromo, message, level)
	c.emit(Event{JobID: jobID, State: st, Message: message})
}

// Stop requests a cooperative stop of the tracked job. The stop control is
// disabled optimistically and re-enabled if the scheduler rejects the
// request. Terminal resolution stays poll-driven: the tracked id is never
// cleared here.
func (c *Controller) Stop(ctx context.Context, jobID string) error {
	c.mu.Lock()
	if c.trackedID == "" || c.trackedID != jobID {
		c.mu.Unlock()
		c.report(AreaPromo, "No profile promotion job found to stop.", status.LevelWarning)
		return fmt.Errorf("stop: no tracked job with id %q", jobID)
	}
	c.stopEnabled = false
	c.mu.Unlock()

	c.report(AreaPromo, fmt.Sprintf("Requesting stop for job %s...", jobID), status.LevelWarning)

	resp, err := c.client.StopPromo(ctx, jobID)
	if err != nil {
		c.reenableStop(jobID)
		return err
	}
	if !resp.OK() {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("Failed to register stop request for job %s.", jobID)
		}
		c.reenableStop(jobID)
		c.report(AreaPromo, msg, status.LevelWarning)
		return fmt.Errorf("stop job: %s", msg)
	}

	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Stop requested for job %s.", jobID)
	}
	c.report(AreaPromo, msg, status.LevelInfo)
	return nil
}

func (c *Controller) reenableStop(jobID string) {
	c.mu.Lock()
	if c.trackedID == jobID {
		c.stopEnabled = true
	}
	c.mu.Unlock()
}

// Close stops any active polling. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancelPoll != nil {
		c.cancelPoll()
		c.cancelPoll = nil
	}
	c.mu.Unlock()
}

func (c *Controller) report(area, text string, level status.Level) {
	if c.reporter != nil {
		c.reporter.Persistent(area, text, level)
	}
}
