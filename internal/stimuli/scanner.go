package stimuli

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoStimulusDir is returned when the stimulus root does not exist
var ErrNoStimulusDir = errors.New("stimulus directory not found")

// DefaultExtensions lists the image extensions scanned when none are configured
var DefaultExtensions = []string{".jpg"}

// Scanner discovers stimulus images one level below a root directory
type Scanner struct {
	extensions []string
}

// NewScanner creates a scanner matching the given extensions (case-insensitive)
func NewScanner(extensions []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &Scanner{extensions: exts}
}

// Scan lists matching files in every immediate subdirectory of root.
// Files directly in root and anything deeper than one level are ignored.
// Results are sorted so the pool is stable before shuffling.
func (s *Scanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoStimulusDir, root)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoStimulusDir, root)
	}

	subdirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var paths []string
	for _, sub := range subdirs {
		if !sub.IsDir() || strings.HasPrefix(sub.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, sub.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, f := range files {
			if f.IsDir() || !s.matches(f.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(dir, f.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range s.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Shuffle returns a uniformly random permutation of paths. The input is not modified.
func Shuffle(paths []string, rng *rand.Rand) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// NewRand returns a generator for seed, or a time-seeded one when seed is 0
func NewRand(seed int64, now func() int64) *rand.Rand {
	if seed == 0 {
		seed = now()
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 - stimulus order, not security
}
