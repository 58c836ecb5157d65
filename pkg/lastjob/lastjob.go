// Package lastjob remembers the most recently scheduled job so commands like
// "promo stop" and "promo status" can run without an explicit job id.
package lastjob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TTL is how long a remembered job stays resolvable. Scheduler jobs are
// cleaned up server-side, so a stale id is worse than none.
const TTL = time.Hour

var (
	mu        sync.RWMutex
	globalRec *Record
	recPath   string
)

// Record is the persisted last-job reference.
type Record struct {
	JobID     string    `json:"job_id"`
	Kind      string    `json:"kind"` // "single" or "profile"
	Link      string    `json:"link,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func dir() (string, error) {
	if d := os.Getenv("PROMOCTL_CONFIG_DIR"); d != "" {
		if err := os.MkdirAll(d, 0700); err != nil {
			return "", fmt.Errorf("create config directory: %w", err)
		}
		return d, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	d := filepath.Join(homeDir, ".promoctl")
	if err := os.MkdirAll(d, 0700); err != nil {
		return "", fmt.Errorf("create .promoctl directory: %w", err)
	}
	return d, nil
}

// Load reads the last-job record from disk.
func Load() (*Record, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalRec != nil {
		if time.Since(globalRec.UpdatedAt) > TTL {
			globalRec = nil
		} else {
			return globalRec, nil
		}
	}

	d, err := dir()
	if err != nil {
		return nil, err
	}
	recPath = filepath.Join(d, "lastjob.json")

	if _, err := os.Stat(recPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no job remembered")
	}

	data, err := os.ReadFile(recPath)
	if err != nil {
		return nil, fmt.Errorf("read lastjob file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse lastjob: %w", err)
	}
	if time.Since(rec.UpdatedAt) > TTL {
		return nil, fmt.Errorf("remembered job expired")
	}

	globalRec = &rec
	return globalRec, nil
}

// Save persists a last-job record to disk.
func Save(rec *Record) error {
	mu.Lock()
	defer mu.Unlock()

	d, err := dir()
	if err != nil {
		return err
	}
	recPath = filepath.Join(d, "lastjob.json")

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lastjob: %w", err)
	}
	if err := os.WriteFile(recPath, data, 0600); err != nil {
		return fmt.Errorf("write lastjob file: %w", err)
	}
	globalRec = rec
	return nil
}

// Clear removes the record from disk and memory.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	d, err := dir()
	if err != nil {
		return err
	}
	recPath = filepath.Join(d, "lastjob.json")

	if _, err := os.Stat(recPath); err == nil {
		if err := os.Remove(recPath); err != nil {
			return fmt.Errorf("remove lastjob file: %w", err)
		}
	}
	globalRec = nil
	return nil
}

// Set remembers a job.
func Set(jobID, kind, link string) error {
	return Save(&Record{JobID: jobID, Kind: kind, Link: link, UpdatedAt: time.Now()})
}

// Resolve resolves a job-id argument: an empty string or "last" means the
// remembered job. The second return reports whether the record was used.
func Resolve(arg string) (string, bool, error) {
	if arg != "" && arg != "last" {
		return arg, false, nil
	}
	rec, err := Load()
	if err != nil {
		return "", false, fmt.Errorf("no job remembered: pass an explicit job id")
	}
	return rec.JobID, true, nil
}
