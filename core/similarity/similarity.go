// Package similarity scores harmonic closeness between tracks for the
// Compare page. The heuristic is a weighted n-gram overlap over
// roman-numeral chord sequences, blended with key/mode and cadence matches.
package similarity

import (
	"sort"
	"strings"

	"chordfm/model"
)

// Weights of the blended score. Chord-motion overlap dominates; key and
// cadence are tie-breakers.
const (
	weightTrigram = 0.45
	weightBigram  = 0.30
	weightKeyMode = 0.15
	weightCadence = 0.10
)

// ngrams returns the set of n-length windows over the chord tokens.
func ngrams(sequence string, n int) map[string]bool {
	tokens := strings.Fields(sequence)
	out := make(map[string]bool)
	for i := 0; i+n <= len(tokens); i++ {
		out[strings.Join(tokens[i:i+n], " ")] = true
	}
	return out
}

// jaccard is |A∩B| / |A∪B|, 0 for two empty sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Score rates how harmonically similar two tracks are, 0 to 1.
func Score(a, b *model.Track) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := weightTrigram*jaccard(ngrams(a.ChordSequence, 3), ngrams(b.ChordSequence, 3)) +
		weightBigram*jaccard(ngrams(a.ChordSequence, 2), ngrams(b.ChordSequence, 2))

	if a.Key != "" && strings.EqualFold(a.Key, b.Key) && strings.EqualFold(a.Mode, b.Mode) {
		score += weightKeyMode
	}
	if a.CadenceType != "" && strings.EqualFold(a.CadenceType, b.CadenceType) {
		score += weightCadence
	}
	return score
}

// Comparison is one ranked similarity result.
type Comparison struct {
	Track *model.Track `json:"track"`
	Score float64      `json:"score"`
}

// Rank scores every candidate against the target and returns the top
// results, best first. The target itself is skipped.
func Rank(target *model.Track, candidates []*model.Track, limit int) []Comparison {
	if target == nil {
		return nil
	}
	out := make([]Comparison, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.ID == target.ID {
			continue
		}
		out = append(out, Comparison{Track: c, Score: Score(target, c)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
