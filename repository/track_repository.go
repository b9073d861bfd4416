package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"chordfm/model"
)

// TrackRepository defines operations for track data, including sections and
// provider links.
type TrackRepository interface {
	CreateTrack(track *model.Track) error
	GetTrackByID(id int64) (*model.Track, error)
	GetFeed(page, pageSize int) ([]*model.Track, error)
	CountTracks() (int64, error)
	CreateSection(section *model.Section) error
	UpsertProviderLink(link *model.ProviderLink) error
	GetAllTracks(limit int) ([]*model.Track, error)
	UpdateArtworkURL(trackID int64, url string) error
}

type trackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository.
func NewTrackRepository(db *sql.DB) TrackRepository {
	return &trackRepository{db: db}
}

const trackColumns = `id, title, artists, album, artwork_url, duration,
	key_sig, mode, chord_sequence, loop_length, cadence_type, confidence, analysis_source,
	spotify_id, url_spotify_web, url_spotify_app, youtube_id, url_youtube,
	created_at, updated_at`

func (r *trackRepository) CreateTrack(track *model.Track) error {
	artists, err := json.Marshal(track.Artists)
	if err != nil {
		return fmt.Errorf("failed to marshal artists: %w", err)
	}

	query := `INSERT INTO tracks (title, artists, album, artwork_url, duration,
		key_sig, mode, chord_sequence, loop_length, cadence_type, confidence, analysis_source,
		spotify_id, url_spotify_web, url_spotify_app, youtube_id, url_youtube)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		track.Title, string(artists), track.Album, track.ArtworkURL, track.Duration,
		track.Key, track.Mode, track.ChordSequence, track.LoopLength,
		track.CadenceType, track.Confidence, track.AnalysisSource,
		track.SpotifyID, track.URLSpotifyWeb, track.URLSpotifyApp,
		track.YoutubeID, track.URLYoutube,
	)
	if err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for track: %w", err)
	}
	track.ID = id

	for i := range track.Sections {
		track.Sections[i].TrackID = id
		if err := r.CreateSection(&track.Sections[i]); err != nil {
			return err
		}
	}
	for i := range track.Links {
		track.Links[i].TrackID = id
		if err := r.UpsertProviderLink(&track.Links[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *trackRepository) GetTrackByID(id int64) (*model.Track, error) {
	row := r.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query track: %w", err)
	}
	if err := r.loadSections(track); err != nil {
		return nil, err
	}
	if err := r.loadLinks(track); err != nil {
		return nil, err
	}
	return track, nil
}

// GetFeed returns one page of the discovery feed, newest first. Sections and
// provider links are loaded for every row so clients can render playback
// options without extra round trips.
func (r *trackRepository) GetFeed(page, pageSize int) ([]*model.Track, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := r.db.Query(`SELECT `+trackColumns+` FROM tracks
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer rows.Close()

	var tracks []*model.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, track := range tracks {
		if err := r.loadSections(track); err != nil {
			return nil, err
		}
		if err := r.loadLinks(track); err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

func (r *trackRepository) CountTracks() (int64, error) {
	var count int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

func (r *trackRepository) CreateSection(section *model.Section) error {
	if !model.ValidSectionLabel(section.Label) {
		return fmt.Errorf("invalid section label: %s", section.Label)
	}
	result, err := r.db.Exec(`INSERT INTO sections (track_id, label, start_sec, end_sec)
		VALUES (?, ?, ?, ?)`, section.TrackID, section.Label, section.StartSec, section.EndSec)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for section: %w", err)
	}
	section.ID = id
	return nil
}

// UpsertProviderLink inserts a provider link, replacing the existing row for
// the same (track, provider) pair. One link per provider per track.
func (r *trackRepository) UpsertProviderLink(link *model.ProviderLink) error {
	query := `INSERT INTO provider_links (track_id, provider, provider_track_id, web_url, app_url, preview_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			provider_track_id = VALUES(provider_track_id),
			web_url = VALUES(web_url),
			app_url = VALUES(app_url),
			preview_url = VALUES(preview_url)`
	_, err := r.db.Exec(query, link.TrackID, link.Provider, link.ProviderTrackID,
		link.WebURL, link.AppURL, link.PreviewURL)
	if err != nil {
		return fmt.Errorf("failed to upsert provider link: %w", err)
	}
	return nil
}

func (r *trackRepository) GetAllTracks(limit int) ([]*model.Track, error) {
	rows, err := r.db.Query(`SELECT `+trackColumns+` FROM tracks ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*model.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, track := range tracks {
		if err := r.loadLinks(track); err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

func (r *trackRepository) UpdateArtworkURL(trackID int64, url string) error {
	_, err := r.db.Exec(`UPDATE tracks SET artwork_url = ? WHERE id = ?`, url, trackID)
	if err != nil {
		return fmt.Errorf("failed to update artwork URL: %w", err)
	}
	return nil
}

func (r *trackRepository) loadSections(track *model.Track) error {
	rows, err := r.db.Query(`SELECT id, track_id, label, start_sec, end_sec
		FROM sections WHERE track_id = ? ORDER BY start_sec`, track.ID)
	if err != nil {
		return fmt.Errorf("failed to query sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.TrackID, &s.Label, &s.StartSec, &s.EndSec); err != nil {
			return fmt.Errorf("failed to scan section: %w", err)
		}
		track.Sections = append(track.Sections, s)
	}
	return rows.Err()
}

func (r *trackRepository) loadLinks(track *model.Track) error {
	rows, err := r.db.Query(`SELECT id, track_id, provider, provider_track_id, web_url, app_url, preview_url
		FROM provider_links WHERE track_id = ? ORDER BY id`, track.ID)
	if err != nil {
		return fmt.Errorf("failed to query provider links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.ProviderLink
		var webURL, appURL, previewURL sql.NullString
		if err := rows.Scan(&l.ID, &l.TrackID, &l.Provider, &l.ProviderTrackID,
			&webURL, &appURL, &previewURL); err != nil {
			return fmt.Errorf("failed to scan provider link: %w", err)
		}
		l.WebURL = webURL.String
		l.AppURL = appURL.String
		l.PreviewURL = previewURL.String
		track.Links = append(track.Links, l)
	}
	return rows.Err()
}

// scanner lets scanTrack work over both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(s scanner) (*model.Track, error) {
	track := &model.Track{}
	var artists sql.NullString
	var album, artworkURL, keySig, mode, chordSeq, cadence, source sql.NullString
	var spotifyID, urlSpotifyWeb, urlSpotifyApp, youtubeID, urlYoutube sql.NullString
	var duration, confidence sql.NullFloat64
	var loopLength sql.NullInt64

	err := s.Scan(
		&track.ID, &track.Title, &artists, &album, &artworkURL, &duration,
		&keySig, &mode, &chordSeq, &loopLength, &cadence, &confidence, &source,
		&spotifyID, &urlSpotifyWeb, &urlSpotifyApp, &youtubeID, &urlYoutube,
		&track.CreatedAt, &track.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if artists.Valid && artists.String != "" {
		if err := json.Unmarshal([]byte(artists.String), &track.Artists); err != nil {
			// Older rows stored a plain comma-free string.
			track.Artists = []string{artists.String}
		}
	}
	track.Album = album.String
	track.ArtworkURL = artworkURL.String
	track.Duration = duration.Float64
	track.Key = keySig.String
	track.Mode = mode.String
	track.ChordSequence = chordSeq.String
	track.LoopLength = int(loopLength.Int64)
	track.CadenceType = cadence.String
	track.Confidence = confidence.Float64
	track.AnalysisSource = source.String
	track.SpotifyID = spotifyID.String
	track.URLSpotifyWeb = urlSpotifyWeb.String
	track.URLSpotifyApp = urlSpotifyApp.String
	track.YoutubeID = youtubeID.String
	track.URLYoutube = urlYoutube.String
	return track, nil
}
