package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"smart-zavuch/access"
	"smart-zavuch/models"
	"smart-zavuch/storage"
	"smart-zavuch/utils"
)

type Controller struct{}

const tokenLifetime = 12 * time.Hour

// Signup регистрирует завуча по имени пользователя и паролю.
func (c Controller) Signup(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		user.Username = strings.TrimSpace(user.Username)
		if user.Username == "" || user.Password == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Username and password are required"})
			return
		}

		hash, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Println("Error hashing password:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error"})
			return
		}

		store := storage.UserStore{DB: db}
		id, err := store.Create(user.Username, hash)
		if err == storage.ErrUsernameTaken {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Username already exists"})
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{"id": id, "message": "User registered successfully"})
	}
}

// Login — вход по имени пользователя и паролю, в ответ JWT.
func (c Controller) Login(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.User
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		creds.Username = strings.TrimSpace(creds.Username)
		if creds.Username == "" || creds.Password == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Username and password are required"})
			return
		}

		store := storage.UserStore{DB: db}
		user, err := store.GetByUsername(creds.Username)
		if err == storage.ErrNotFound {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, models.Error{Message: "Storage unavailable"})
			return
		}

		if !utils.ComparePasswords(user.PasswordHash, []byte(creds.Password)) {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		token, err := utils.GenerateToken(user.Username, tokenLifetime)
		if err != nil {
			log.Println("Error generating token:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error"})
			return
		}

		utils.ResponseJSON(w, map[string]string{"token": token})
	}
}

// PhoneLogin — вход по номеру телефона через внешний список допуска.
// Наружу один и тот же отказ, что при неизвестном номере, что при
// недоступной таблице: различие остается в логах.
func (c Controller) PhoneLogin(checker access.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phone string `json:"phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		phone := strings.TrimSpace(body.Phone)
		if !utils.IsPhoneNumber(phone) {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid phone format"})
			return
		}

		if !checker.IsAllowed(phone) {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Access denied"})
			return
		}

		token, err := utils.GenerateToken(phone, tokenLifetime)
		if err != nil {
			log.Println("Error generating token:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error"})
			return
		}

		utils.ResponseJSON(w, map[string]string{"token": token})
	}
}
