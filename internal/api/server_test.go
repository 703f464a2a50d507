package api

import (
	"io"
	"net/http"
	"testing"

	"slotbook/internal/upstream"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil, upstream.BookingResponse{})

	resp, err := http.Get(env.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t, nil, upstream.BookingResponse{})

	resp, err := http.Get(env.server.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestReadyzUpstreamDown(t *testing.T) {
	env := newTestEnv(t, nil, upstream.BookingResponse{})
	env.upstream.Close()

	resp, err := http.Get(env.server.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}
