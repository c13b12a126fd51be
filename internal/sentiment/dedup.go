package sentiment

import (
	"strings"
)

// FingerprintLen is how many leading runes identify a fragment.
const FingerprintLen = 120

// Fingerprint is the first FingerprintLen runes of the trimmed text, case kept.
func Fingerprint(text string) string {
	text = strings.TrimSpace(text)
	n := 0
	for i := range text {
		if n == FingerprintLen {
			return text[:i]
		}
		n++
	}
	return text
}

// SeenSet remembers fingerprints. Add reports whether fp was new.
type SeenSet interface {
	Add(fp string) bool
	Len() int
}

// NewSeenSet returns an unbounded set when capacity <= 0 and a ring that
// forgets the oldest fingerprint otherwise.
func NewSeenSet(capacity int) SeenSet {
	if capacity <= 0 {
		return &unboundedSet{seen: make(map[string]struct{})}
	}
	return &ringSet{
		seen: make(map[string]struct{}, capacity),
		ring: make([]string, capacity),
	}
}

type unboundedSet struct {
	seen map[string]struct{}
}

func (s *unboundedSet) Add(fp string) bool {
	if _, ok := s.seen[fp]; ok {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

func (s *unboundedSet) Len() int { return len(s.seen) }

type ringSet struct {
	seen map[string]struct{}
	ring []string
	next int
	full bool
}

func (s *ringSet) Add(fp string) bool {
	if _, ok := s.seen[fp]; ok {
		return false
	}
	if s.full {
		delete(s.seen, s.ring[s.next])
	}
	s.ring[s.next] = fp
	s.seen[fp] = struct{}{}
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.full = true
	}
	return true
}

func (s *ringSet) Len() int { return len(s.seen) }

// Fresh filters texts down to those whose fingerprint seen has not recorded,
// recording them as it goes.
func Fresh(seen SeenSet, texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if seen.Add(Fingerprint(t)) {
			out = append(out, t)
		}
	}
	return out
}
