package db

import (
	"database/sql"
	"fmt"
	"log"

	"vessfm/config"

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
// exist, and seeds the system user that owns unattended ingestions.
func InitDB(cfg *config.Config) error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createArtistsTable(); err != nil {
		return err
	}
	if err := createAlbumsTable(); err != nil {
		return err
	}
	if err := createTracksTable(); err != nil {
		return err
	}
	if err := createTrackArtistsTable(); err != nil {
		return err
	}
	if err := seedSystemUser(cfg.SystemUserID); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createArtistsTable() error {
	// The unique key on name is what makes artist create-or-reuse safe
	// under concurrent ingestions.
	query := `
	CREATE TABLE IF NOT EXISTS artists (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		bio TEXT,
		image_url VARCHAR(512),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_artists_name (name)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create artists table: %w", err)
	}
	return nil
}

func createAlbumsTable() error {
	// (artist_id, title) is the album identity key.
	query := `
	CREATE TABLE IF NOT EXISTS albums (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		artist_id BIGINT NOT NULL,
		title VARCHAR(255) NOT NULL,
		release_date DATE NOT NULL,
		cover_path VARCHAR(512) NOT NULL DEFAULT '',
		genre VARCHAR(100) NOT NULL DEFAULT '',
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_albums_artist_title (artist_id, title)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create albums table: %w", err)
	}
	return nil
}

func createTracksTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		album_id BIGINT,
		title VARCHAR(255) NOT NULL,
		duration INT NOT NULL DEFAULT 0,
		file_path VARCHAR(512) NOT NULL,
		cover_path VARCHAR(512) NOT NULL DEFAULT '',
		genre VARCHAR(100) NOT NULL DEFAULT '',
		track_number INT,
		publish_date DATETIME NOT NULL,
		lyrics MEDIUMTEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_tracks_user (user_id),
		KEY idx_tracks_album (album_id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create tracks table: %w", err)
	}
	return nil
}

func createTrackArtistsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS track_artists (
		track_id BIGINT NOT NULL,
		artist_id BIGINT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (track_id, artist_id),
		KEY idx_track_artists_artist (artist_id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create track_artists table: %w", err)
	}
	return nil
}

// seedSystemUser makes sure the configured system user exists so tracks
// ingested without an authenticated uploader have a valid owner.
func seedSystemUser(systemUserID int64) error {
	query := `
	INSERT IGNORE INTO users (id, username, email, password_hash, full_name)
	VALUES (?, 'system', 'system@localhost', '', 'System')
	`
	if _, err := DB.Exec(query, systemUserID); err != nil {
		return fmt.Errorf("failed to seed system user: %w", err)
	}
	return nil
}
