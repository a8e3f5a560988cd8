package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrIncompleteRanking = errors.New("ranking incomplete")
	ErrDuplicateRank     = errors.New("duplicate rank")
)

// Record pairs a stimulus identifier with the rank text entered for it
type Record struct {
	Image string
	Rank  string
}

// Sink persists a saved ranking and returns where it was written
type Sink interface {
	Save(ctx context.Context, records []Record) (string, error)
}

// Hook inspects collected records after a save request
type Hook func(records []Record) error

// ValidationMode controls what happens when a hook reports a problem
type ValidationMode string

const (
	ValidationOff     ValidationMode = "off"
	ValidationWarn    ValidationMode = "warn"
	ValidationEnforce ValidationMode = "enforce"
)

// Collector extracts rankings from a board
type Collector struct {
	Mode  ValidationMode
	Hooks []Hook
}

// NewCollector returns a collector running the completeness and uniqueness
// hooks under mode. ValidationOff saves whatever was entered.
func NewCollector(mode ValidationMode) *Collector {
	c := &Collector{Mode: mode}
	if mode != ValidationOff && mode != "" {
		c.Hooks = []Hook{CompletenessHook, UniquenessHook}
	}
	return c
}

// Collect returns one record per item in grid order, rank text verbatim
func (c *Collector) Collect(b *Board) []Record {
	records := make([]Record, 0, b.Len())
	for _, e := range b.Entries() {
		records = append(records, Record{Image: e.Base.ID, Rank: e.Field.Text()})
	}
	return records
}

// Check runs every hook and joins their errors
func (c *Collector) Check(records []Record) error {
	var errs []error
	for _, hook := range c.Hooks {
		if err := hook(records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Blocks reports whether a check failure should refuse the save
func (c *Collector) Blocks(err error) bool {
	return err != nil && c.Mode == ValidationEnforce
}

// Deliver hands records to the sink
func (c *Collector) Deliver(ctx context.Context, sink Sink, records []Record) (string, error) {
	path, err := sink.Save(ctx, records)
	if err != nil {
		return "", fmt.Errorf("failed to persist rankings: %w", err)
	}
	return path, nil
}

// CompletenessHook fails when any rank is empty
func CompletenessHook(records []Record) error {
	empty := 0
	for _, r := range records {
		if strings.TrimSpace(r.Rank) == "" {
			empty++
		}
	}
	if empty > 0 {
		return fmt.Errorf("%w: %d of %d stimuli unranked", ErrIncompleteRanking, empty, len(records))
	}
	return nil
}

// UniquenessHook fails when a non-empty rank is used more than once
func UniquenessHook(records []Record) error {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Rank != "" {
			counts[r.Rank]++
		}
	}
	var dups []string
	for rank, n := range counts {
		if n > 1 {
			dups = append(dups, rank)
		}
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Strings(dups)
	return fmt.Errorf("%w: %s", ErrDuplicateRank, strings.Join(dups, ", "))
}
