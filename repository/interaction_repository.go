package repository

import (
	"database/sql"
	"fmt"

	"chordfm/model"
)

// InteractionRepository covers likes, saves, and the interaction log.
type InteractionRepository interface {
	// ToggleLike flips the like state and returns whether the track is now liked.
	ToggleLike(userID, trackID int64) (bool, error)
	// ToggleSave flips the save state and returns whether the track is now saved.
	ToggleSave(userID, trackID int64) (bool, error)
	IsLiked(userID, trackID int64) (bool, error)
	IsSaved(userID, trackID int64) (bool, error)
	CountLikes(trackID int64) (int64, error)
	CountSaves(trackID int64) (int64, error)
	RecordInteraction(userID, trackID int64, action string) error
	GetSavedTracks(userID int64, limit int) ([]int64, error)
}

type interactionRepository struct {
	db *sql.DB
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *sql.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) ToggleLike(userID, trackID int64) (bool, error) {
	return r.toggle("likes", userID, trackID)
}

func (r *interactionRepository) ToggleSave(userID, trackID int64) (bool, error) {
	return r.toggle("saves", userID, trackID)
}

func (r *interactionRepository) toggle(table string, userID, trackID int64) (bool, error) {
	result, err := r.db.Exec(
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND track_id = ?`, table),
		userID, trackID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected > 0 {
		// Row existed; the toggle removed it.
		return false, nil
	}

	_, err = r.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (user_id, track_id) VALUES (?, ?)`, table),
		userID, trackID)
	if err != nil {
		return false, fmt.Errorf("failed to insert %s row: %w", table, err)
	}
	return true, nil
}

func (r *interactionRepository) IsLiked(userID, trackID int64) (bool, error) {
	return r.exists("likes", userID, trackID)
}

func (r *interactionRepository) IsSaved(userID, trackID int64) (bool, error) {
	return r.exists("saves", userID, trackID)
}

func (r *interactionRepository) exists(table string, userID, trackID int64) (bool, error) {
	var n int
	err := r.db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = ? AND track_id = ?`, table),
		userID, trackID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return n > 0, nil
}

func (r *interactionRepository) CountLikes(trackID int64) (int64, error) {
	return r.count("likes", trackID)
}

func (r *interactionRepository) CountSaves(trackID int64) (int64, error) {
	return r.count("saves", trackID)
}

func (r *interactionRepository) count(table string, trackID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE track_id = ?`, table),
		trackID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func (r *interactionRepository) RecordInteraction(userID, trackID int64, action string) error {
	if !model.ValidInteractionAction(action) {
		return fmt.Errorf("invalid interaction action: %s", action)
	}
	_, err := r.db.Exec(`INSERT INTO interactions (user_id, track_id, action) VALUES (?, ?, ?)`,
		userID, trackID, action)
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

func (r *interactionRepository) GetSavedTracks(userID int64, limit int) ([]int64, error) {
	rows, err := r.db.Query(`SELECT track_id FROM saves WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved tracks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved track: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
