package results

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yildizm/RankGrid/internal/session"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 5, 30, 9, 21, 50, 0, time.Local)
	got := FileName("S01", "art_ranking", ts)
	want := "S01_art_ranking_300524_092150.csv"
	if got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestValidateSubject(t *testing.T) {
	tests := []struct {
		subject string
		wantErr bool
	}{
		{"S01", false},
		{"participant 7", false},
		{"", true},
		{"   ", true},
		{"../etc", true},
		{`a\b`, true},
		{"..", true},
	}

	for _, tt := range tests {
		err := ValidateSubject(tt.subject)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSubject(%q) error = %v, wantErr %v", tt.subject, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidSubject) {
			t.Errorf("Expected ErrInvalidSubject, got %v", err)
		}
	}
}

func TestCSVStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store := NewCSVStore(dir, "S01", "art_ranking")
	store.Now = func() time.Time { return time.Date(2024, 5, 30, 9, 21, 50, 0, time.Local) }

	records := []session.Record{
		{Image: "stimuli/a/1.jpg", Rank: "2"},
		{Image: "stimuli/b/2.jpg", Rank: ""},
		{Image: "stimuli/b/with,comma.jpg", Rank: "1"},
	}

	path, err := store.Save(context.Background(), records)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "S01_art_ranking_300524_092150.csv" {
		t.Errorf("Unexpected file name %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("Expected %d rows, got %d", len(records)+1, len(rows))
	}
	if rows[0][0] != "Image" || rows[0][1] != "Ranking" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	for i, r := range records {
		if rows[i+1][0] != r.Image || rows[i+1][1] != r.Rank {
			t.Errorf("row %d: expected %v, got %v", i+1, r, rows[i+1])
		}
	}
}

func TestCSVStoreRejectsBadSubject(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(dir, "../escape", "art_ranking")

	if _, err := store.Save(context.Background(), nil); !errors.Is(err, ErrInvalidSubject) {
		t.Errorf("Expected ErrInvalidSubject, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files written, found %d", len(entries))
	}
}

func TestCSVStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewCSVStore(t.TempDir(), "S01", "art_ranking")
	if _, err := store.Save(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
