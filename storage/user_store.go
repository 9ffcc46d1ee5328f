package storage

import (
	"database/sql"
	"errors"

	log "github.com/sirupsen/logrus"

	"smart-zavuch/models"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserStore struct {
	DB *sql.DB
}

// Create регистрирует пользователя. Повторный username — ErrUsernameTaken.
func (s UserStore) Create(username, passwordHash string) (int64, error) {
	var existingID int64
	err := s.DB.QueryRow("SELECT id FROM users WHERE username = ?", username).Scan(&existingID)
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if err != sql.ErrNoRows {
		log.Println("Error checking existing user:", err)
		return 0, ErrStorageUnavailable
	}

	res, err := s.DB.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", username, passwordHash)
	if err != nil {
		log.Println("Error inserting user:", err)
		return 0, ErrStorageUnavailable
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, ErrStorageUnavailable
	}
	return id, nil
}

// GetByUsername возвращает пользователя вместе с хэшем пароля.
func (s UserStore) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRow("SELECT id, username, password_hash FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Println("Error querying user:", err)
		return nil, ErrStorageUnavailable
	}
	return &user, nil
}
