package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"promoctl/pkg/app"
	"promoctl/pkg/config"
	"promoctl/pkg/output"
	"promoctl/pkg/status"
)

// getOutputPrinter creates an output printer based on global flags.
func getOutputPrinter() *output.Printer {
	format := output.FormatHuman
	if flagJSON {
		format = output.FormatJSON
	} else if flagRaw {
		format = output.FormatRaw
	}
	return output.New(format, flagQuiet)
}

// getApp bootstraps the console against the configured backend.
func getApp(ctx context.Context) *app.App {
	log := logrus.StandardLogger()
	cfg, _ := config.Load()
	a := app.Bootstrap(ctx, cfg, log)

	// Echo status events so controller reporting reaches the terminal.
	if !flagJSON {
		out := getOutputPrinter()
		a.Status.Subscribe(func(ev status.Event) {
			if ev.Cleared || flagQuiet {
				return
			}
			switch ev.Message.Level {
			case status.LevelDanger, status.LevelWarning:
				out.Printf("! %s\n", ev.Message.Text)
			default:
				out.Printf("· %s\n", ev.Message.Text)
			}
		})
	}
	return a
}

// commandContext returns a context for one CLI invocation.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
