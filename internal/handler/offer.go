package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/unessa/fundraiser-api/internal/letter"
	"github.com/unessa/fundraiser-api/internal/model"
	"github.com/unessa/fundraiser-api/internal/repository"
)

// istZone matches the timezone the letters are dated in.
var istZone = time.FixedZone("IST", 5*3600+1800)

// GenerateOffer runs the offer letter pipeline for a fundraiser
func (h *Handler) GenerateOffer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "missing_field", "Email is required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to fetch user for offer letter")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	if user.LetterState == model.LetterDelivered {
		writeJSON(w, http.StatusOK, map[string]string{"message": "already delivered"})
		return
	}

	err = h.pipeline.Generate(r.Context(), letter.Request{
		RecipientID:  user.ID,
		DisplayName:  user.Name,
		EmailAddress: user.Email,
		IssuedDate:   time.Now().In(istZone).Format("2 January 2006"),
	})
	if err != nil {
		var verr *letter.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": verr.Error()})
			return
		}
		// Internal stage detail stays in the logs; callers get a generic
		// failure either way.
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "failed to generate offer letter"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "delivered"})
}

// GetOfferLetter serves a delivered offer letter PDF
func (h *Handler) GetOfferLetter(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.PathValue("email"))

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to fetch user for offer letter download")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	if user.LetterState != model.LetterDelivered {
		writeError(w, http.StatusNotFound, "not_found", "Offer letter not generated yet")
		return
	}

	handle := letter.Handle{Location: user.ID, Inline: true}
	if user.LetterPath != nil && *user.LetterPath != "" {
		handle = letter.Handle{Location: *user.LetterPath}
	}

	pdf, err := h.artifacts.Retrieve(r.Context(), handle)
	if err != nil {
		if errors.Is(err, letter.ErrArtifactNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Offer letter not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to retrieve offer letter")
		writeError(w, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", letter.AttachmentFilename(user.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
