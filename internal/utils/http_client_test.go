package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewHTTPClient_IndependentInstances(t *testing.T) {
	first := NewHTTPClient()
	second := NewHTTPClient()

	if first == second || first.Client == second.Client {
		t.Error("expected independent client instances")
	}

	first.SetTimeout(time.Second)
	if second.Client.GetClient().Timeout == time.Second {
		t.Error("configuring one client must not affect another")
	}
}

func TestHTTPClient_PerformsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"pong":true}`))
	}))
	defer server.Close()

	client := NewHTTPClient()
	resp, err := client.R().Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"pong":true}` {
		t.Errorf("unexpected body: %s", resp.Body())
	}
}
