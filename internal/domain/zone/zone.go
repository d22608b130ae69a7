// Package zone maps strike-zone labels into a single batter frame of reference.
//
// Stored sessions are kept in the right-handed frame: a left-handed batter's
// "Inside" is a right-handed batter's "Outside". The relabeling happens once,
// when a session is logged, so every consumer sees the same labels.
package zone

import (
	"strings"

	"github.com/okian/dugout/internal/domain/model"
)

const (
	inside  = "inside"
	outside = "outside"
)

// Normalize relabels a zone for the given stance. Only left-handed batters are
// mirrored; switch hitters are reported as logged.
func Normalize(label string, hand model.Hand) string {
	if hand != model.HandLeft || label == "" {
		return label
	}
	return swapWords(label)
}

// NormalizeAll returns a fresh slice with every label normalized.
func NormalizeAll(labels []string, hand model.Hand) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = Normalize(l, hand)
	}
	return out
}

// NormalizeSession mirrors every set's zones, including the drill-independent
// set-level tags. The input is not modified.
func NormalizeSession(s model.Session) model.Session {
	out := s.Clone()
	if s.BatterHand != model.HandLeft {
		return out
	}
	for i := range out.Sets {
		out.Sets[i].TargetZones = NormalizeAll(out.Sets[i].TargetZones, s.BatterHand)
	}
	return out
}

// swapWords exchanges every "inside"/"outside" word in label, keeping the
// capitalization of the word it replaces. Matching works on label's own bytes;
// any other text, including multi-byte runes, is copied through unchanged.
func swapWords(label string) string {
	var b strings.Builder
	b.Grow(len(label) + 1)
	for i := 0; i < len(label); {
		switch {
		case hasWordAt(label, i, outside):
			b.WriteString(matchCase(label[i:i+len(outside)], inside))
			i += len(outside)
		case hasWordAt(label, i, inside):
			b.WriteString(matchCase(label[i:i+len(inside)], outside))
			i += len(inside)
		default:
			b.WriteByte(label[i])
			i++
		}
	}
	return b.String()
}

// hasWordAt reports whether label holds the ASCII word w at byte offset i,
// ignoring case.
func hasWordAt(label string, i int, w string) bool {
	if i+len(w) > len(label) {
		return false
	}
	for j := 0; j < len(w); j++ {
		c := label[i+j]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != w[j] {
			return false
		}
	}
	return true
}

func matchCase(orig, repl string) string {
	switch {
	case orig == strings.ToUpper(orig):
		return strings.ToUpper(repl)
	case orig[0] >= 'A' && orig[0] <= 'Z':
		return strings.ToUpper(repl[:1]) + repl[1:]
	default:
		return repl
	}
}
