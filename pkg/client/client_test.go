package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promoctl/pkg/api"
	"promoctl/pkg/models"
	"promoctl/pkg/status"
)

// mockServer creates a test HTTP server that returns specified responses.
type mockServer struct {
	*httptest.Server
	responses map[string]mockResponse
}

type mockResponse struct {
	statusCode int
	body       any
}

func newMockServer() *mockServer {
	ms := &mockServer{
		responses: make(map[string]mockResponse),
	}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		resp, ok := ms.responses[key]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.statusCode)
		json.NewEncoder(w).Encode(resp.body)
	}))

	return ms
}

func (ms *mockServer) setResponse(method, path string, statusCode int, body any) {
	ms.responses[method+" "+path] = mockResponse{
		statusCode: statusCode,
		body:       body,
	}
}

func TestCallSuccess(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	ms.setResponse("GET", "/api/username", 200, map[string]any{"success": true, "username": "promoter"})

	c := New(ms.URL)
	resp, err := c.Username(context.Background())
	if err != nil {
		t.Fatalf("Username() error = %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Username != "promoter" {
		t.Errorf("Username = %q, want %q", resp.Username, "promoter")
	}
}

func TestCallErrorFromBody(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	ms.setResponse("POST", "/api/start_promo", 400, map[string]string{"error": "profile not found"})

	c := New(ms.URL)
	_, err := c.StartPromo(context.Background(), api.StartProfileRequest{ProfileName: "nope", Link: "https://x"})
	if err == nil {
		t.Fatal("expected an error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Message != "profile not found" {
		t.Errorf("Message = %q, want body error field", apiErr.Message)
	}
	if apiErr.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Transport {
		t.Error("application error must not be marked transport")
	}
}

func TestCallErrorFallbackMessage(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	ms.setResponse("GET", "/api/profiles", 500, map[string]any{})

	c := New(ms.URL)
	_, err := c.Profiles(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "HTTP error! status: 500") {
		t.Errorf("error = %q, want generic status message", err.Error())
	}
}

func TestCallNonJSONResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Profiles(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsTransport(err) {
		t.Error("non-JSON response should be a transport error")
	}
	if !strings.Contains(err.Error(), "Non-JSON response (502") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestCallNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL)
	_, err := c.Profiles(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsTransport(err) {
		t.Error("connection failure should be a transport error")
	}
	if err.Error() != "Network error. Check connectivity and backend." {
		t.Errorf("error = %q", err.Error())
	}
}

func TestFailureReportsToSharedSurface(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	ms.setResponse("GET", "/api/profiles", 400, map[string]string{"error": "bad request"})

	reporter := status.New()
	c := New(ms.URL, WithStatusReporter(reporter))

	_, err := c.Profiles(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	msg, ok := reporter.PersistentMessage(status.AreaMain)
	if !ok {
		t.Fatal("failure was not reported to the main area")
	}
	if msg.Text != "API Error: bad request" {
		t.Errorf("reported text = %q", msg.Text)
	}
	if msg.Level != status.LevelDanger {
		t.Errorf("reported level = %q, want danger", msg.Level)
	}
}

func TestTransportFailureReportPrefix(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	reporter := status.New()
	c := New(srv.URL, WithStatusReporter(reporter))

	if _, err := c.Profiles(context.Background()); err == nil {
		t.Fatal("expected an error")
	}

	msg, ok := reporter.PersistentMessage(status.AreaMain)
	if !ok {
		t.Fatal("failure was not reported")
	}
	if !strings.HasPrefix(msg.Text, "Error: ") {
		t.Errorf("transport failures use the Error: prefix, got %q", msg.Text)
	}
}

func TestProfilesDecoding(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	fixed := 100
	ms.setResponse("GET", "/api/profiles", 200, map[string]models.ProfileSettings{
		"growth": {
			Engagements: []models.EngagementRule{
				{Type: "Likes", Platform: "Instagram", FixedQuantity: &fixed, Loops: 1},
			},
			LoopSettings: models.LoopSettings{Loops: 2, Delay: 5},
		},
	})

	c := New(ms.URL)
	profiles, err := c.Profiles(context.Background())
	if err != nil {
		t.Fatalf("Profiles() error = %v", err)
	}

	p, ok := profiles["growth"]
	if !ok {
		t.Fatal("missing profile growth")
	}
	if len(p.Engagements) != 1 {
		t.Fatalf("Engagements = %d, want 1", len(p.Engagements))
	}
	rule := p.Engagements[0]
	if rule.Type != "Likes" || rule.FixedQuantity == nil || *rule.FixedQuantity != 100 {
		t.Errorf("rule = %+v", rule)
	}
	if p.LoopSettings.Loops != 2 {
		t.Errorf("Loops = %d, want 2", p.LoopSettings.Loops)
	}
}

func TestStopPromoStatusDiscriminator(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	ms.setResponse("POST", "/api/stop_promo", 200, map[string]string{"status": "error", "message": "job not running"})

	c := New(ms.URL)
	resp, err := c.StopPromo(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("StopPromo() error = %v", err)
	}
	if resp.OK() {
		t.Error("OK() = true for status=error")
	}
	if resp.Message != "job not running" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestDeleteProfileEscapesName(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "profiles": map[string]any{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.DeleteProfile(context.Background(), "my profile/v2"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if !strings.Contains(gotPath, "my%20profile%2Fv2") {
		t.Errorf("path = %q, profile name not escaped", gotPath)
	}
}

func TestMinimumsRawKeys(t *testing.T) {
	t.Parallel()

	ms := newMockServer()
	defer ms.Close()
	ms.setResponse("GET", "/api/config/minimums", 200, map[string]int{
		"('Instagram', 'Likes')": 50,
	})

	c := New(ms.URL)
	raw, err := c.Minimums(context.Background())
	if err != nil {
		t.Fatalf("Minimums() error = %v", err)
	}
	if raw["('Instagram', 'Likes')"] != 50 {
		t.Errorf("raw table = %v", raw)
	}
}
