package repository_test

import (
	"context"
	"regexp"
	"testing"

	"sportconnect/internal/model"
	repo "sportconnect/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash, first_name, last_name, phone, role) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`)).
		WithArgs("a@b.com", "hash", "Arjun", "Rao", "9999999999", "coach").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	nid, err := r.Create(context.Background(), &model.User{
		Email:        "a@b.com",
		PasswordHash: "hash",
		FirstName:    "Arjun",
		LastName:     "Rao",
		Phone:        "9999999999",
		Role:         model.RoleCoach,
	})
	require.NoError(t, err)
	require.Equal(t, id, nid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_SaveVerificationSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE users
		SET verification = $2, verification_status = 'pending', is_verified = FALSE, updated_at = now()
		WHERE id = $1
	`)).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.SaveVerificationSubmission(context.Background(), uuid.New(), model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_SaveVerificationDocuments_MergesKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	// the jsonb concatenation keeps previously uploaded kinds in place
	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE users
		SET verification_documents = COALESCE(verification_documents, '{}'::jsonb) || $2, updated_at = now()
		WHERE id = $1
	`)).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.SaveVerificationDocuments(context.Background(), uuid.New(), model.VerificationDocuments{
		CertificationProof: "verification/u1/certification_proof/1_cert.pdf",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_ApproveVerification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE users
		SET verification_status = 'approved', is_verified = TRUE,
			verification_notes = $2, verified_by = $3, verified_at = $4, updated_at = now()
		WHERE id = $1
	`)).WithArgs(sqlmock.AnyArg(), "Google presence confirmed", "admin-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.ApproveVerification(context.Background(), uuid.New(), "Google presence confirmed", "admin-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_ListProviders_StatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"id", "email", "role", "verification_status"}).
		AddRow(uuid.New(), "t@b.com", "turf", "pending")

	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE role IN \('coach', 'turf'\) AND verification_status = \$1 ORDER BY created_at DESC`).
		WithArgs("pending").WillReturnRows(rows)

	users, err := r.ListProviders(context.Background(), model.VerificationPending)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, model.RoleTurf, users[0].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}
