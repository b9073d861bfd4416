package db

import (
	"database/sql"
	"fmt"
	"log"

	"chordfm/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't
// exist. Comments, play events, and provider connections are migrated
// separately through GORM.
func InitDB() error {
	statements := []struct {
		name  string
		query string
	}{
		{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			display_name VARCHAR(100),
			preferred_provider VARCHAR(32) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`},
		{"tracks", `
		CREATE TABLE IF NOT EXISTS tracks (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			artists TEXT,
			album VARCHAR(255),
			artwork_url VARCHAR(767),
			duration FLOAT,
			key_sig VARCHAR(8),
			mode VARCHAR(16),
			chord_sequence TEXT,
			loop_length INT,
			cadence_type VARCHAR(32),
			confidence FLOAT,
			analysis_source VARCHAR(64),
			spotify_id VARCHAR(64),
			url_spotify_web VARCHAR(767),
			url_spotify_app VARCHAR(255),
			youtube_id VARCHAR(64),
			url_youtube VARCHAR(767),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`},
		{"sections", `
		CREATE TABLE IF NOT EXISTS sections (
			id INT AUTO_INCREMENT PRIMARY KEY,
			track_id INT NOT NULL,
			label VARCHAR(32) NOT NULL,
			start_sec FLOAT NOT NULL,
			end_sec FLOAT,
			INDEX idx_sections_track (track_id)
		);`},
		{"provider_links", `
		CREATE TABLE IF NOT EXISTS provider_links (
			id INT AUTO_INCREMENT PRIMARY KEY,
			track_id INT NOT NULL,
			provider VARCHAR(32) NOT NULL,
			provider_track_id VARCHAR(255) NOT NULL,
			web_url VARCHAR(767),
			app_url VARCHAR(255),
			preview_url VARCHAR(767),
			UNIQUE KEY uniq_track_provider (track_id, provider)
		);`},
		{"likes", `
		CREATE TABLE IF NOT EXISTS likes (
			user_id INT NOT NULL,
			track_id INT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, track_id)
		);`},
		{"saves", `
		CREATE TABLE IF NOT EXISTS saves (
			user_id INT NOT NULL,
			track_id INT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, track_id)
		);`},
		{"interactions", `
		CREATE TABLE IF NOT EXISTS interactions (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			track_id INT NOT NULL,
			action VARCHAR(16) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_interactions_user (user_id),
			INDEX idx_interactions_track (track_id)
		);`},
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
	}

	log.Println("Database schema initialized.")
	return nil
}
