package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoctl/pkg/client"
	"promoctl/pkg/models"
)

func newStoreServer(t *testing.T, handler http.HandlerFunc) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStore(client.New(srv.URL), nil), srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestLoadAllPopulatesCache(t *testing.T) {
	t.Parallel()

	store, _ := newStoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]models.ProfileSettings{
			"growth": {LoopSettings: models.LoopSettings{Loops: 1}},
			"burst":  {LoopSettings: models.LoopSettings{Loops: 3}},
		})
	})

	all := store.LoadAll(context.Background())
	assert.Len(t, all, 2)
	assert.Equal(t, []string{"burst", "growth"}, store.Names())

	p, ok := store.Get("burst")
	require.True(t, ok)
	assert.Equal(t, 3, p.LoopSettings.Loops)
}

func TestLoadAllFailureLeavesEmptyCache(t *testing.T) {
	t.Parallel()

	store, _ := newStoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]string{"error": "boom"})
	})

	all := store.LoadAll(context.Background())
	assert.Empty(t, all, "bootstrap tolerates the failure and leaves an empty store")
	assert.Empty(t, store.Names())
}

func TestSaveReplacesCacheWithServerSet(t *testing.T) {
	t.Parallel()

	store, _ := newStoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		// The server is authoritative: it returns a set including a profile
		// this client never wrote.
		writeJSON(w, 200, map[string]any{
			"success": true,
			"profiles": map[string]models.ProfileSettings{
				req.Name:        {LoopSettings: models.LoopSettings{Loops: 1}},
				"someone-elses": {LoopSettings: models.LoopSettings{Loops: 9}},
			},
		})
	})

	_, err := store.Save(context.Background(), "mine", models.ProfileSettings{
		LoopSettings: models.LoopSettings{Loops: 1},
	}, "mine")
	require.NoError(t, err)

	assert.Equal(t, []string{"mine", "someone-elses"}, store.Names())
}

func TestSaveRejectsEmptyName(t *testing.T) {
	t.Parallel()

	store := NewStore(client.New("http://127.0.0.1:0"), nil)
	_, err := store.Save(context.Background(), "", models.ProfileSettings{
		LoopSettings: models.LoopSettings{Loops: 1},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name cannot be empty")
}

func TestSaveValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	// Any network call would fail loudly; validation must reject first.
	store := NewStore(client.New("http://127.0.0.1:0"), nil)

	_, err := store.Save(context.Background(), "bad", models.ProfileSettings{
		LoopSettings: models.LoopSettings{Loops: 0},
	}, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop settings")
}

func TestSaveNormalizesLoopSettings(t *testing.T) {
	t.Parallel()

	var sent models.ProfileSettings
	store, _ := newStoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Settings models.ProfileSettings `json:"settings"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		sent = req.Settings
		writeJSON(w, 200, map[string]any{"success": true, "profiles": map[string]models.ProfileSettings{}})
	})

	_, err := store.Save(context.Background(), "p", models.ProfileSettings{
		LoopSettings: models.LoopSettings{Loops: 2, Delay: 10, RandomDelay: true, MinDelay: 1, MaxDelay: 5},
	}, "p")
	require.NoError(t, err)

	assert.Zero(t, sent.LoopSettings.Delay, "fixed delay is cleared in random mode")
	assert.Equal(t, 1.0, sent.LoopSettings.MinDelay)
	assert.Equal(t, 5.0, sent.LoopSettings.MaxDelay)
}

func TestSaveBackendRejection(t *testing.T) {
	t.Parallel()

	store, _ := newStoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "error": "name already taken"})
	})

	_, err := store.Save(context.Background(), "p", models.ProfileSettings{
		LoopSettings: models.LoopSettings{Loops: 1},
	}, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name already taken")
	assert.Empty(t, store.Names(), "cache untouched on rejection")
}

func TestDeleteReplacesCache(t *testing.T) {
	t.Parallel()

	store, _ := newStoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, map[string]models.ProfileSettings{
				"a": {}, "b": {},
			})
		case http.MethodDelete:
			writeJSON(w, 200, map[string]any{
				"success":  true,
				"profiles": map[string]models.ProfileSettings{"b": {}},
			})
		}
	})

	store.LoadAll(context.Background())
	require.Len(t, store.Names(), 2)

	remaining, err := store.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, []string{"b"}, store.Names())
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	t.Run("random delay bounds", func(t *testing.T) {
		t.Parallel()
		err := ValidateSettings(models.ProfileSettings{
			LoopSettings: models.LoopSettings{Loops: 1, RandomDelay: true, MinDelay: 10, MaxDelay: 2},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min delay cannot be greater than max delay")
	})

	t.Run("engagement rule tags", func(t *testing.T) {
		t.Parallel()
		err := ValidateSettings(models.ProfileSettings{
			Engagements:  []models.EngagementRule{{Type: "", Loops: 1}},
			LoopSettings: models.LoopSettings{Loops: 1},
		})
		require.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		fixed := 100
		err := ValidateSettings(models.ProfileSettings{
			Engagements:  []models.EngagementRule{{Type: "Likes", FixedQuantity: &fixed, Loops: 1}},
			LoopSettings: models.LoopSettings{Loops: 1, Delay: 2},
		})
		require.NoError(t, err)
	})
}
