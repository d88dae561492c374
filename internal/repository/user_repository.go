package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/unessa/fundraiser-api/internal/database"
	"github.com/unessa/fundraiser-api/internal/model"
)

// UserRepository handles user data persistence
type UserRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Postgres) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, phone, avatar, username, amount,
       quiz_status, letter_state, letter_path, offer_sent_at, has_seen_tour,
       created_at, updated_at`

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, avatar, username, amount, quiz_status, letter_state, has_seen_tour, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.Avatar,
		user.Username,
		user.Amount,
		user.QuizStatus,
		user.LetterState,
		user.HasSeenTour,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

// ExistsByEmail checks if a user with the given email exists
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateQuizStatus updates the user's quiz status
func (r *UserRepository) UpdateQuizStatus(ctx context.Context, email string, status model.QuizStatus) error {
	query := `UPDATE users SET quiz_status = $1, updated_at = $2 WHERE email = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to update quiz status: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkTourSeen records that the user has seen the dashboard tour
func (r *UserRepository) MarkTourSeen(ctx context.Context, email string) error {
	query := `UPDATE users SET has_seen_tour = true, updated_at = $1 WHERE email = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to mark tour seen: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLetterDelivered records a successfully delivered offer letter.
// artifactPath is nil when the artifact lives inline in the row.
func (r *UserRepository) UpdateLetterDelivered(ctx context.Context, id string, artifactPath *string, sentAt time.Time) error {
	query := `
		UPDATE users
		SET letter_state = $1, quiz_status = $2, letter_path = $3, offer_sent_at = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		model.LetterDelivered, model.QuizPassed, artifactPath, sentAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update letter state: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLetterFailed marks a failed offer-letter delivery.
func (r *UserRepository) UpdateLetterFailed(ctx context.Context, id string) error {
	query := `UPDATE users SET letter_state = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, model.LetterDeliveryFailed, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update letter state: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StoreLetterPDF writes the rendered letter inline into the user row.
func (r *UserRepository) StoreLetterPDF(ctx context.Context, id string, pdf []byte) error {
	query := `UPDATE users SET letter_pdf = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, pdf, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to store letter pdf: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLetterPDF reads the inline letter artifact for the user.
func (r *UserRepository) GetLetterPDF(ctx context.Context, id string) ([]byte, error) {
	query := `SELECT letter_pdf FROM users WHERE id = $1`
	var pdf []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&pdf)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get letter pdf: %w", err)
	}
	if len(pdf) == 0 {
		return nil, ErrNotFound
	}
	return pdf, nil
}

// DeleteLetterPDF clears the inline letter artifact. Missing rows and
// already-empty columns are not errors; cleanup paths rely on that.
func (r *UserRepository) DeleteLetterPDF(ctx context.Context, id string) error {
	query := `UPDATE users SET letter_pdf = NULL, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to delete letter pdf: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Avatar,
		&u.Username,
		&u.Amount,
		&u.QuizStatus,
		&u.LetterState,
		&u.LetterPath,
		&u.OfferSentAt,
		&u.HasSeenTour,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
