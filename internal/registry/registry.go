// Package registry holds the user-extensible set of expense category
// labels. The registry lives only in memory: it is reseeded on every
// start and never persisted, so labels added during a session vanish
// with it while records keep referencing them.
package registry

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

// DefaultSeed is the label set every session starts with.
var DefaultSeed = []string{"Food", "Travel", "Shopping"}

// Registry is an ordered set of category labels. Insertion order is
// preserved for display; duplicates are rejected silently.
type Registry struct {
	mu     sync.Mutex
	labels []string
	seen   map[string]struct{}
}

// New creates a registry seeded with the given labels, falling back to
// DefaultSeed when none are supplied.
func New(seed ...string) *Registry {
	if len(seed) == 0 {
		seed = DefaultSeed
	}
	r := &Registry{seen: make(map[string]struct{})}
	for _, label := range seed {
		r.Add(label)
	}
	return r
}

// NewFromFile seeds a registry from a newline-separated label file,
// falling back to DefaultSeed when the file is missing or empty. Blank
// lines and #-comments are skipped.
func NewFromFile(path string) *Registry {
	return New(readLines(path)...)
}

// Add registers a label. Labels are trimmed; empty strings and
// case-sensitive duplicates are rejected. The return value reports
// whether the label was added.
func (r *Registry) Add(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[label]; ok {
		return false
	}
	r.seen[label] = struct{}{}
	r.labels = append(r.labels, label)
	return true
}

// Labels returns the labels in insertion order.
func (r *Registry) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.labels...)
}

// Has reports whether a label is registered.
func (r *Registry) Has(label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[label]
	return ok
}

func readLines(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
