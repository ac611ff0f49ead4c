package monitor

import (
	"testing"
	"time"
)

func TestSeenStoreAddSeen(t *testing.T) {
	s := NewSeenStore(24 * time.Hour)

	url := "https://example.com/a"
	if s.Seen(url) {
		t.Errorf("Seen(%q) = true before Add", url)
	}
	s.Add(url)
	if !s.Seen(url) {
		t.Errorf("Seen(%q) = false after Add", url)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}

	s.Add(url)
	if got := s.Len(); got != 1 {
		t.Errorf("Len after duplicate Add = %d, want 1", got)
	}
}

func TestSeenStoreEvict(t *testing.T) {
	s := NewSeenStore(7 * 24 * time.Hour)
	now := time.Now()

	s.Add("https://example.com/old")
	s.urls["https://example.com/old"] = now.Add(-8 * 24 * time.Hour)
	s.Add("https://example.com/fresh")

	evicted := s.Evict(now)
	if evicted != 1 {
		t.Fatalf("Evict = %d, want 1", evicted)
	}
	if s.Seen("https://example.com/old") {
		t.Error("expired URL still reported as seen")
	}
	if !s.Seen("https://example.com/fresh") {
		t.Error("fresh URL evicted")
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len after evict = %d, want 1", got)
	}
}

func TestSeenStoreEvictNothing(t *testing.T) {
	s := NewSeenStore(time.Hour)
	s.Add("https://example.com/a")
	s.Add("https://example.com/b")

	if evicted := s.Evict(time.Now()); evicted != 0 {
		t.Errorf("Evict = %d, want 0", evicted)
	}
	if got := s.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}
