package repository

import (
	"fmt"

	"chordfm/model"

	"gorm.io/gorm"
)

// CommentRepository covers track comments. Backed by GORM.
type CommentRepository interface {
	CreateComment(comment *model.Comment) error
	ListByTrack(trackID int64, limit int) ([]model.Comment, error)
	DeleteComment(commentID, userID int64) error
	CountByTrack(trackID int64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListByTrack(trackID int64, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("track_id = ?", trackID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment, but only when userID owns it.
func (r *commentRepository) DeleteComment(commentID, userID int64) error {
	result := r.db.Where("id = ? AND user_id = ?", commentID, userID).
		Delete(&model.Comment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment not found or not owned by user")
	}
	return nil
}

func (r *commentRepository) CountByTrack(trackID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("track_id = ?", trackID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
