package similarity

import (
	"testing"

	"chordfm/model"
)

func track(id int64, key, mode, cadence, chords string) *model.Track {
	return &model.Track{ID: id, Key: key, Mode: mode, CadenceType: cadence, ChordSequence: chords}
}

func TestScoreIdenticalTracks(t *testing.T) {
	a := track(1, "C", "major", "authentic", "I V vi IV")
	b := track(2, "C", "major", "authentic", "I V vi IV")

	got := Score(a, b)
	if got < 0.99 || got > 1.0 {
		t.Errorf("Score(identical) = %v; want ~1.0", got)
	}
}

func TestScoreDisjointTracks(t *testing.T) {
	a := track(1, "C", "major", "authentic", "I V vi IV")
	b := track(2, "F#", "minor", "deceptive", "ii bVII iii bVI")

	if got := Score(a, b); got != 0 {
		t.Errorf("Score(disjoint) = %v; want 0", got)
	}
}

func TestScorePartialOverlap(t *testing.T) {
	a := track(1, "C", "major", "authentic", "I V vi IV")
	b := track(2, "C", "major", "half", "I V vi iii")

	got := Score(a, b)
	if got <= 0 || got >= 1 {
		t.Errorf("Score(partial) = %v; want between 0 and 1", got)
	}

	// Closer chord motion must beat a track sharing only the key.
	c := track(3, "C", "major", "half", "ii bVII iii bVI")
	if Score(a, b) <= Score(a, c) {
		t.Errorf("overlapping progression scored %v, key-only scored %v", Score(a, b), Score(a, c))
	}
}

func TestScoreSymmetric(t *testing.T) {
	a := track(1, "G", "major", "plagal", "I IV I V")
	b := track(2, "G", "major", "authentic", "I IV V I")

	if Score(a, b) != Score(b, a) {
		t.Errorf("Score not symmetric: %v != %v", Score(a, b), Score(b, a))
	}
}

func TestScoreEmptySequences(t *testing.T) {
	a := track(1, "", "", "", "")
	b := track(2, "", "", "", "")
	if got := Score(a, b); got != 0 {
		t.Errorf("Score(empty) = %v; want 0 (empty key/cadence must not match)", got)
	}
	if got := Score(nil, a); got != 0 {
		t.Errorf("Score(nil) = %v; want 0", got)
	}
}

func TestRank(t *testing.T) {
	target := track(1, "C", "major", "authentic", "I V vi IV")
	candidates := []*model.Track{
		track(1, "C", "major", "authentic", "I V vi IV"), // target itself, skipped
		track(2, "C", "major", "authentic", "I V vi IV"), // identical
		track(3, "C", "major", "half", "I V vi iii"),     // close
		track(4, "F#", "minor", "deceptive", "ii bVII iii bVI"),
	}

	got := Rank(target, candidates, 2)
	if len(got) != 2 {
		t.Fatalf("Rank returned %d results; want 2", len(got))
	}
	if got[0].Track.ID != 2 || got[1].Track.ID != 3 {
		t.Errorf("Rank order = [%d %d]; want [2 3]", got[0].Track.ID, got[1].Track.ID)
	}
	if got[0].Score < got[1].Score {
		t.Error("Rank results not sorted best first")
	}
}
