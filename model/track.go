package model

import "time"

// Section labels form a closed set; anything else is rejected at ingestion.
const (
	SectionIntro     = "intro"
	SectionVerse     = "verse"
	SectionPreChorus = "pre-chorus"
	SectionChorus    = "chorus"
	SectionBridge    = "bridge"
	SectionOutro     = "outro"
	SectionSolo      = "solo"
	SectionBreakdown = "breakdown"
	SectionDrop      = "drop"
)

// ValidSectionLabel reports whether label belongs to the closed section set.
func ValidSectionLabel(label string) bool {
	switch label {
	case SectionIntro, SectionVerse, SectionPreChorus, SectionChorus,
		SectionBridge, SectionOutro, SectionSolo, SectionBreakdown, SectionDrop:
		return true
	}
	return false
}

// Section is a named region of a track, used for section navigation.
type Section struct {
	ID       int64    `json:"id"`
	TrackID  int64    `json:"trackId"`
	Label    string   `json:"label"`
	StartSec float64  `json:"startSec"`
	EndSec   *float64 `json:"endSec,omitempty"`
}

// ProviderLink ties a canonical track to one external provider. Created and
// updated by ingestion when a track is matched against a provider; read-only
// for API clients. A track never holds two links for the same provider.
type ProviderLink struct {
	ID              int64  `json:"id"`
	TrackID         int64  `json:"trackId"`
	Provider        string `json:"provider"`
	ProviderTrackID string `json:"providerTrackId"`
	WebURL          string `json:"webUrl,omitempty"`
	AppURL          string `json:"appUrl,omitempty"`
	PreviewURL      string `json:"previewUrl,omitempty"`
}

// Track represents a canonical track in the discovery feed.
type Track struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album,omitempty"`
	ArtworkURL string   `json:"artworkUrl,omitempty"`
	Duration   float64  `json:"duration,omitempty"`

	// Harmonic-analysis fields. Informational only; the playback core never
	// reads them.
	Key            string  `json:"key,omitempty"`
	Mode           string  `json:"mode,omitempty"`
	ChordSequence  string  `json:"chordSequence,omitempty"` // roman numerals, space separated
	LoopLength     int     `json:"loopLength,omitempty"`
	CadenceType    string  `json:"cadenceType,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	AnalysisSource string  `json:"analysisSource,omitempty"`

	Sections []Section      `json:"sections,omitempty"`
	Links    []ProviderLink `json:"links,omitempty"`

	// Legacy flat provider fields, still populated by older ingestion rows.
	// The link resolver falls back to these when Links is empty.
	SpotifyID     string `json:"spotifyId,omitempty"`
	URLSpotifyWeb string `json:"urlSpotifyWeb,omitempty"`
	URLSpotifyApp string `json:"urlSpotifyApp,omitempty"`
	YoutubeID     string `json:"youtubeId,omitempty"`
	URLYoutube    string `json:"urlYoutube,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
