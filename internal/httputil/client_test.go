package httputil

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func mustRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return req
}

func TestMockClientURLResponses(t *testing.T) {
	m := NewMockHTTPClient()
	m.SetURLResponse("https://example.com/a.csv", 200, "hello")

	resp, err := m.Do(mustRequest(t, "https://example.com/a.csv"))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "hello" {
		t.Errorf("body = %q", body)
	}
}

func TestMockClientDefaultsTo404(t *testing.T) {
	m := NewMockHTTPClient()
	resp, err := m.Do(mustRequest(t, "https://example.com/missing"))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
}

func TestMockClientQueuedResponses(t *testing.T) {
	m := NewMockHTTPClient()
	m.AddErrorResponse(errors.New("reset"))
	m.AddResponse(200, "ok")

	if _, err := m.Do(mustRequest(t, "https://example.com/x")); err == nil {
		t.Fatal("first request should fail")
	}
	resp, err := m.Do(mustRequest(t, "https://example.com/x"))
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if m.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", m.RequestCount())
	}
}

func TestStandardClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	}))
	defer srv.Close()

	c := NewStandardClient(nil)
	resp, err := c.Do(mustRequest(t, srv.URL))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("body = %q", body)
	}
}
