package repository

import (
	"context"
	"errors"
	"strings"

	"tutorform-backend/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Duplicate-key errors surfaced when a unique constraint rejects an insert.
var (
	ErrDuplicateEmail     = errors.New("a submission with this email already exists")
	ErrDuplicateTaxNumber = errors.New("a submission with this tax number already exists")
)

// SubmissionRepository handles database operations for form submissions
type SubmissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission and fills in its generated id and
// timestamps. Unique-index violations on email and tax_number are mapped
// to ErrDuplicateEmail / ErrDuplicateTaxNumber.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (
			first_name, last_name, email, phone,
			address, city, zip_code, country,
			tax_number, vat_number, bank_details,
			hourly_rate, half_hour_rate,
			identity_document, residency_proof, qualifications,
			business_permit, liability_insurance, company_statutes,
			ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		submission.FirstName,
		submission.LastName,
		submission.Email,
		submission.Phone,
		submission.Address,
		submission.City,
		submission.ZipCode,
		submission.Country,
		submission.TaxNumber,
		submission.VATNumber,
		submission.BankDetails,
		submission.HourlyRate,
		submission.HalfHourRate,
		submission.IdentityDocument,
		submission.ResidencyProof,
		submission.Qualifications,
		submission.BusinessPermit,
		submission.LiabilityInsurance,
		submission.CompanyStatutes,
		submission.IPAddress,
		submission.UserAgent,
	).Scan(&submission.ID, &submission.CreatedAt, &submission.UpdatedAt)

	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

// List retrieves all submissions ordered by creation time descending.
// ip_address, user_agent and updated_at are deliberately not selected;
// they never leave the server.
func (r *SubmissionRepository) List(ctx context.Context) ([]*models.Submission, error) {
	query := `
		SELECT id, first_name, last_name, email, phone,
			address, city, zip_code, country,
			tax_number, vat_number, bank_details,
			hourly_rate, half_hour_rate,
			identity_document, residency_proof, qualifications,
			business_permit, liability_insurance, company_statutes,
			created_at
		FROM submissions
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Non-nil even when the table is empty, so the endpoint always
	// serializes data as a JSON array.
	submissions := []*models.Submission{}
	for rows.Next() {
		submission := &models.Submission{}
		err := rows.Scan(
			&submission.ID,
			&submission.FirstName,
			&submission.LastName,
			&submission.Email,
			&submission.Phone,
			&submission.Address,
			&submission.City,
			&submission.ZipCode,
			&submission.Country,
			&submission.TaxNumber,
			&submission.VATNumber,
			&submission.BankDetails,
			&submission.HourlyRate,
			&submission.HalfHourRate,
			&submission.IdentityDocument,
			&submission.ResidencyProof,
			&submission.Qualifications,
			&submission.BusinessPermit,
			&submission.LiabilityInsurance,
			&submission.CompanyStatutes,
			&submission.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, rows.Err()
}

// mapUniqueViolation translates Postgres 23505 errors into the typed
// duplicate errors, keyed by the violated constraint's name.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrDuplicateEmail
		case strings.Contains(pgErr.ConstraintName, "tax_number"):
			return ErrDuplicateTaxNumber
		}
	}
	return err
}
