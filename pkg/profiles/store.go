// Package profiles manages promotion profiles: the client-side cache of the
// backend profile set and the engagement-rule editing session.
package profiles

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"promoctl/pkg/api"
	"promoctl/pkg/client"
	"promoctl/pkg/models"
)

var validate = validator.New()

// ValidateSettings checks a profile's persisted invariants before it is sent
// to the backend.
func ValidateSettings(s models.ProfileSettings) error {
	if err := validate.Struct(s.LoopSettings); err != nil {
		return fmt.Errorf("loop settings: %w", err)
	}
	if s.LoopSettings.RandomDelay && s.LoopSettings.MinDelay > s.LoopSettings.MaxDelay {
		return fmt.Errorf("loop settings: min delay cannot be greater than max delay")
	}
	for _, rule := range s.Engagements {
		if err := validate.Struct(rule); err != nil {
			return fmt.Errorf("engagement %q: %w", rule.Type, err)
		}
	}
	return nil
}

// Store caches the backend's profile set. Every mutation replaces the cache
// wholesale with the server's response, so the cache always reflects server
// state exactly, including entries this client never wrote.
type Store struct {
	mu     sync.RWMutex
	client *client.Client
	log    *logrus.Logger
	cache  map[string]models.ProfileSettings
}

// NewStore creates an empty store backed by the given client.
func NewStore(c *client.Client, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		client: c,
		log:    log,
		cache:  make(map[string]models.ProfileSettings),
	}
}

// LoadAll fetches every profile. On failure the cache is reset to empty and
// the error has already been reported through the client's status surface;
// bootstrap never fails because of this call.
func (s *Store) LoadAll(ctx context.Context) map[string]models.ProfileSettings {
	profiles, err := s.client.Profiles(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load profiles")
		profiles = make(map[string]models.ProfileSettings)
	}
	s.replace(profiles)
	return s.All()
}

// Save upserts a profile, renaming when originalName differs from name, and
// returns the authoritative profile set.
func (s *Store) Save(ctx context.Context, name string, settings models.ProfileSettings, originalName string) (map[string]models.ProfileSettings, error) {
	if name == "" {
		return nil, fmt.Errorf("profile name cannot be empty")
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	settings.LoopSettings.Normalize()

	resp, err := s.client.SaveProfile(ctx, api.SaveProfileRequest{
		Name:         name,
		Settings:     settings,
		OriginalName: originalName,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("save profile: %s", fallbackMsg(resp.ErrorMessage(), "backend rejected the profile"))
	}
	s.replace(resp.Profiles)
	return s.All(), nil
}

// Delete removes a profile by name and returns the remaining set.
func (s *Store) Delete(ctx context.Context, name string) (map[string]models.ProfileSettings, error) {
	resp, err := s.client.DeleteProfile(ctx, name)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("delete profile: %s", fallbackMsg(resp.ErrorMessage(), "backend rejected the delete"))
	}
	s.replace(resp.Profiles)
	return s.All(), nil
}

// Get returns a cached profile by name.
func (s *Store) Get(name string) (models.ProfileSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cache[name]
	return p, ok
}

// Names returns the cached profile names sorted alphabetically.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.cache))
	for name := range s.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the cached profile set.
func (s *Store) All() map[string]models.ProfileSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.ProfileSettings, len(s.cache))
	for name, p := range s.cache {
		out[name] = p
	}
	return out
}

func (s *Store) replace(profiles map[string]models.ProfileSettings) {
	if profiles == nil {
		profiles = make(map[string]models.ProfileSettings)
	}
	s.mu.Lock()
	s.cache = profiles
	s.mu.Unlock()
}

func fallbackMsg(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
