package router

import "testing"

func TestMemoryHistoryPushReplace(t *testing.T) {
	h := NewMemoryHistory("/devices")

	if err := h.Navigate("/devices?page=2"); err != nil {
		t.Fatalf("Navigate push: %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("Len after push: got %d, want 2", h.Len())
	}

	if err := h.Navigate("/devices?page=3", WithReplace()); err != nil {
		t.Fatalf("Navigate replace: %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("Len after replace: got %d, want 2", h.Len())
	}
	if got := h.Location().String(); got != "/devices?page=3" {
		t.Errorf("Location after replace: got %q", got)
	}
	if !h.LastOptions().Replace {
		t.Error("LastOptions should record replace")
	}
}

func TestMemoryHistoryBackForward(t *testing.T) {
	h := NewMemoryHistory("/devices")
	_ = h.Navigate("/deployments")
	_ = h.Navigate("/releases")

	if !h.Back() || h.Location().Path != "/deployments" {
		t.Fatalf("Back: got %q", h.Location().Path)
	}
	if !h.Back() || h.Location().Path != "/devices" {
		t.Fatalf("Back twice: got %q", h.Location().Path)
	}
	if h.Back() {
		t.Error("Back at oldest entry should report false")
	}
	if !h.Forward() || h.Location().Path != "/deployments" {
		t.Fatalf("Forward: got %q", h.Location().Path)
	}

	// Pushing from the middle drops forward entries.
	_ = h.Navigate("/tenants")
	if h.Forward() {
		t.Error("Forward after push should report false")
	}
	if h.Len() != 3 {
		t.Errorf("Len: got %d, want 3", h.Len())
	}
}

func TestMemoryHistoryRejectsInvalidTarget(t *testing.T) {
	h := NewMemoryHistory("/devices")
	if err := h.Navigate("http://evil.example"); err == nil {
		t.Fatal("Navigate to absolute URL should fail")
	}
	if h.Location().Path != "/devices" {
		t.Errorf("failed navigation should not move, got %q", h.Location().Path)
	}
}

func TestNewMemoryHistoryInvalidInitial(t *testing.T) {
	h := NewMemoryHistory("not-a-path")
	if h.Location().Path != "/" {
		t.Errorf("invalid initial location: got %q, want /", h.Location().Path)
	}
}
