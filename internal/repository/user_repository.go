package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sportconnect/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, role,
	specialization, turf_name, turf_address,
	is_verified, verification_status, verification, verification_documents,
	verification_notes, verified_at, verified_by, rejected_by, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	SaveVerificationSubmission(ctx context.Context, id uuid.UUID, data model.VerificationData) error
	SaveVerificationDocuments(ctx context.Context, id uuid.UUID, docs model.VerificationDocuments) error
	ApproveVerification(ctx context.Context, id uuid.UUID, notes, verifiedBy string) error
	RejectVerification(ctx context.Context, id uuid.UUID, reason, rejectedBy string) error
	ListProviders(ctx context.Context, status string) ([]model.User, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone, role) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Role,
	).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) SaveVerificationSubmission(ctx context.Context, id uuid.UUID, data model.VerificationData) error {
	query := `
		UPDATE users
		SET verification = $2, verification_status = 'pending', is_verified = FALSE, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, data)
	return err
}

// SaveVerificationDocuments merges the given keys into the stored document
// set. Each upload carries a single kind, so a plain SET would wipe the
// documents uploaded before it.
func (r *postgresUserRepository) SaveVerificationDocuments(ctx context.Context, id uuid.UUID, docs model.VerificationDocuments) error {
	query := `
		UPDATE users
		SET verification_documents = COALESCE(verification_documents, '{}'::jsonb) || $2, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, docs)
	return err
}

func (r *postgresUserRepository) ApproveVerification(ctx context.Context, id uuid.UUID, notes, verifiedBy string) error {
	query := `
		UPDATE users
		SET verification_status = 'approved', is_verified = TRUE,
			verification_notes = $2, verified_by = $3, verified_at = $4, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, notes, verifiedBy, time.Now())
	return err
}

func (r *postgresUserRepository) RejectVerification(ctx context.Context, id uuid.UUID, reason, rejectedBy string) error {
	query := `
		UPDATE users
		SET verification_status = 'rejected', is_verified = FALSE,
			verification_notes = $2, rejected_by = $3, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, reason, rejectedBy)
	return err
}

// ListProviders returns coach and turf accounts, optionally filtered by
// verification status. An empty status returns all providers.
func (r *postgresUserRepository) ListProviders(ctx context.Context, status string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role IN ('coach', 'turf')`
	args := []interface{}{}

	if status != "" {
		query += ` AND verification_status = $1`
		args = append(args, status)
	}

	query += ` ORDER BY created_at DESC`

	var users []model.User
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	if users == nil {
		users = []model.User{}
	}

	return users, nil
}
