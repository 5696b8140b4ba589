package models

import (
	"testing"
	"time"
)

func TestWasPublishedRecently(t *testing.T) {
	now := time.Now()
	question := Question{QuestionText: "Quien es el mejor Course Director de Platzi."}

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"future question", now.AddDate(0, 0, 30), false},
		{"one second ahead", now.Add(time.Second), false},
		{"present question", now, true},
		{"published within the window", now.Add(-23 * time.Hour), true},
		{"published at the window edge", now.Add(-DefaultRecentWindow), true},
		{"published past the window", now.Add(-25 * time.Hour), false},
		{"published two days ago", now.AddDate(0, 0, -2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			question.PubDate = tt.pubDate
			if got := question.WasPublishedRecently(now); got != tt.want {
				t.Errorf("WasPublishedRecently() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWasPublishedRecentlyCustomWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if !WasPublishedRecently(now.AddDate(0, 0, -2), now, 72*time.Hour) {
		t.Error("expected a two days old question to be recent within a three days window")
	}
	if WasPublishedRecently(now.AddDate(0, 0, -2), now, time.Hour) {
		t.Error("expected a two days old question to be stale within a one hour window")
	}
	if WasPublishedRecently(now.Add(time.Nanosecond), now, 72*time.Hour) {
		t.Error("expected a future question to never be recent")
	}
}

func TestIsPublished(t *testing.T) {
	now := time.Now()

	if !IsPublished(now, now) {
		t.Error("expected a question published now to be visible")
	}
	if !IsPublished(now.AddDate(0, 0, -30), now) {
		t.Error("expected a past question to be visible")
	}
	if IsPublished(now.AddDate(0, 0, 30), now) {
		t.Error("expected a future question to be hidden")
	}
}
