package results

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yildizm/RankGrid/internal/session"
)

// TimestampLayout formats capture times as ddmmyy_HHMMSS
const TimestampLayout = "020106_150405"

// Header is the first row of every ranking file
var Header = []string{"Image", "Ranking"}

var ErrInvalidSubject = errors.New("invalid subject identifier")

// FileName joins subject, task tag and capture time with underscores
func FileName(subject, tag string, t time.Time) string {
	return strings.Join([]string{subject, tag, t.Format(TimestampLayout)}, "_") + ".csv"
}

// ValidateSubject rejects identifiers that cannot be used in a file name
func ValidateSubject(subject string) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSubject)
	}
	if strings.ContainsAny(subject, `/\`) || subject == "." || subject == ".." {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidSubject, subject)
	}
	return nil
}

// CSVStore writes saved rankings to a directory as CSV
type CSVStore struct {
	Dir     string
	Subject string
	Tag     string
	Now     func() time.Time
}

// NewCSVStore creates a store for one subject's session
func NewCSVStore(dir, subject, tag string) *CSVStore {
	return &CSVStore{Dir: dir, Subject: subject, Tag: tag, Now: time.Now}
}

// Save writes the header and one row per record and returns the file path
func (s *CSVStore) Save(ctx context.Context, records []session.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateSubject(s.Subject); err != nil {
		return "", err
	}

	data, err := Encode(records)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, FileName(s.Subject, s.Tag, s.Now()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Encode renders records as CSV with the ranking header
func Encode(records []session.Record) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write([]string{r.Image, r.Rank}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return b.Bytes(), nil
}
