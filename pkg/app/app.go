// Package app wires the console together: one deterministic initialization
// path that builds the client, loads shared data, and hands out the
// controllers.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"promoctl/pkg/client"
	"promoctl/pkg/config"
	"promoctl/pkg/jobs"
	"promoctl/pkg/minimums"
	"promoctl/pkg/monitor"
	"promoctl/pkg/profiles"
	"promoctl/pkg/status"
)

// App holds the wired console components.
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	Status   *status.Reporter
	Client   *client.Client
	Profiles *profiles.Store
	Minimums *minimums.Table
	Jobs     *jobs.Controller
	Monitor  *monitor.Controller
}

// Bootstrap builds the component graph and loads profiles and minimums in
// parallel. Either load may fail independently: a failed profile load leaves
// an empty store, a failed minimums load leaves every minimum at 1. Neither
// fails the bootstrap.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logrus.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.New()
	}

	reporter := status.New()
	c := client.New(cfg.APIUrl,
		client.WithStatusReporter(reporter),
		client.WithLogger(log),
	)
	store := profiles.NewStore(c, log)

	var table *minimums.Table
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		store.LoadAll(ctx)
	}()
	go func() {
		defer wg.Done()
		raw, err := c.Minimums(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to load minimum quantities")
			table = minimums.Empty()
			return
		}
		table = minimums.FromLegacy(raw)
	}()
	wg.Wait()

	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	jobCtrl := jobs.NewController(c, table,
		jobs.WithPollInterval(interval),
		jobs.WithStatusReporter(reporter),
		jobs.WithLogger(log),
	)
	monCtrl := monitor.NewController(c,
		monitor.WithStatusReporter(reporter),
		monitor.WithLogger(log),
	)

	return &App{
		Config:   cfg,
		Log:      log,
		Status:   reporter,
		Client:   c,
		Profiles: store,
		Minimums: table,
		Jobs:     jobCtrl,
		Monitor:  monCtrl,
	}
}

// Close releases background resources.
func (a *App) Close() {
	if a.Jobs != nil {
		a.Jobs.Close()
	}
}
