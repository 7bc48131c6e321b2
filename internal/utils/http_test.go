package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON_Success(t *testing.T) {
	recorder := httptest.NewRecorder()

	n, err := WriteJSON(recorder, map[string]string{"status": "ok"}, 201)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Error("expected bytes written")
	}

	if recorder.Code != 201 {
		t.Errorf("expected status 201, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", body["status"])
	}
}

func TestWriteJSON_MarshalFailure(t *testing.T) {
	recorder := httptest.NewRecorder()

	// Channels are not JSON-serializable.
	_, err := WriteJSON(recorder, make(chan int), 200)
	if err == nil {
		t.Fatal("expected marshal error, got nil")
	}
	if recorder.Code != 500 {
		t.Errorf("expected status 500, got %d", recorder.Code)
	}
}
