package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unessa/fundraiser-api/internal/model"
	"github.com/unessa/fundraiser-api/internal/repository"
	"github.com/unessa/fundraiser-api/internal/webhook"
)

var emailShapeRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Username string `json:"username"`
}

// Register creates a new fundraiser account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Email is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Name is required")
		return
	}
	if !emailShapeRx.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid_email", "Invalid email format")
		return
	}

	username := req.Username
	if username == "" {
		base := strings.ToLower(strings.Join(strings.Fields(req.Name), ""))
		username = fmt.Sprintf("%s%04d", base, 1000+rand.Intn(9000))
	}

	now := time.Now()
	user := &model.User{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       strings.TrimSpace(req.Phone),
		Avatar:      req.Avatar,
		Username:    username,
		QuizStatus:  model.QuizNotAttempted,
		LetterState: model.LetterNotGenerated,
		HasSeenTour: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "already_exists", "Email or username already exists")
			return
		}
		h.log.Error().Err(err).Msg("failed to create user")
		writeError(w, http.StatusInternalServerError, "internal_error", "Registration failed")
		return
	}

	// CRM delivery retries on its own schedule; don't hold the response.
	if h.notifier.Enabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			_ = h.notifier.Notify(ctx, webhook.Registration{
				Name:  user.Name,
				Email: user.Email,
				Phone: user.Phone,
			})
		}()
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to issue registration token")
		writeError(w, http.StatusInternalServerError, "internal_error", "Registration failed")
		return
	}

	h.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"username": user.Username,
			"avatar":   user.Avatar,
		},
		"token": token,
	})
}

// CheckUser reports whether an account exists for the given email
func (h *Handler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Email is required")
		return
	}

	exists, err := h.users.ExistsByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to check user")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// GetUser returns the public profile for an email address
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.PathValue("email"))

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to fetch user")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
		"avatar":   user.Avatar,
		"amount":   user.Amount,
	})
}

// UpdateQuizStatus records the outcome of the onboarding quiz
func (h *Handler) UpdateQuizStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	status := model.QuizStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_status", "Invalid quiz status")
		return
	}

	err := h.users.UpdateQuizStatus(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to update quiz status")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"quizStatus": status,
	})
}

// GetQuizStatus returns the quiz status for an email address
func (h *Handler) GetQuizStatus(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.PathValue("email"))

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to fetch quiz status")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quizStatus": user.QuizStatus})
}

// MarkTourSeen records that the user finished the dashboard tour
func (h *Handler) MarkTourSeen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Email is required")
		return
	}

	err := h.users.MarkTourSeen(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to mark tour seen")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
