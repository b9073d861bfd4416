package repository

import (
	"database/sql"
	"fmt"

	"chordfm/model"
)

// UserRepository defines operations for user data.
type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id int64) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdatePreferredProvider(userID int64, provider string) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, display_name, preferred_provider)
	          VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.PreferredProvider)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *userRepository) GetUserByID(id int64) (*model.User, error) {
	return r.scanOne(`SELECT id, username, email, password_hash, display_name,
		preferred_provider, created_at, updated_at FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetUserByUsername(username string) (*model.User, error) {
	return r.scanOne(`SELECT id, username, email, password_hash, display_name,
		preferred_provider, created_at, updated_at FROM users WHERE username = ?`, username)
}

func (r *userRepository) GetUserByEmail(email string) (*model.User, error) {
	return r.scanOne(`SELECT id, username, email, password_hash, display_name,
		preferred_provider, created_at, updated_at FROM users WHERE email = ?`, email)
}

func (r *userRepository) UpdatePreferredProvider(userID int64, provider string) error {
	_, err := r.db.Exec(`UPDATE users SET preferred_provider = ? WHERE id = ?`, provider, userID)
	if err != nil {
		return fmt.Errorf("failed to update preferred provider: %w", err)
	}
	return nil
}

func (r *userRepository) scanOne(query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.PreferredProvider, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
