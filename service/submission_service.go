package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"tutorform-backend/mailer"
	"tutorform-backend/models"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a client-correctable problem with the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionRepository is the persistence surface the service needs
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	List(ctx context.Context) ([]*models.Submission, error)
}

// SubmissionService handles business logic for form submissions
type SubmissionService struct {
	repo   SubmissionRepository
	intake *IntakeService
	mailer mailer.Mailer
}

// SubmissionServiceOption is a functional option for SubmissionService
type SubmissionServiceOption func(*SubmissionService)

// WithSubmissionRepository sets the submission repository
func WithSubmissionRepository(repo SubmissionRepository) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.repo = repo
	}
}

// WithIntakeService sets the multipart intake service
func WithIntakeService(intake *IntakeService) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.intake = intake
	}
}

// WithMailer sets the confirmation mailer
func WithMailer(m mailer.Mailer) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.mailer = m
	}
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(opts ...SubmissionServiceOption) *SubmissionService {
	s := &SubmissionService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRequest represents one incoming form submission
type SubmitRequest struct {
	Reader    *multipart.Reader
	IPAddress string
	UserAgent string
}

// SubmitResult represents the result of a successful submission
type SubmitResult struct {
	Submission *models.Submission
}

// Submit consumes the multipart body, validates the collected fields,
// persists the submission and fires the confirmation email. The email is
// best-effort: a provider failure is logged and the submission still
// succeeds.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if s.repo == nil {
		return nil, errors.New("submission repository not set")
	}
	if s.intake == nil {
		return nil, errors.New("intake service not set")
	}

	collected, err := s.intake.Collect(ctx, req.Reader)
	if err != nil {
		return nil, err
	}

	submission, err := buildSubmission(collected.Fields)
	if err != nil {
		return nil, err
	}

	for category, attachments := range collected.Files {
		*submission.Attachments(category) = attachments
	}
	submission.IPAddress = req.IPAddress
	submission.UserAgent = req.UserAgent

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendConfirmation(ctx, submission); err != nil {
			log.Printf("Warning: failed to send confirmation email for %s: %v", submission.ID, err)
		}
	}

	return &SubmitResult{Submission: submission}, nil
}

// ListSubmissions returns all persisted submissions, newest first
func (s *SubmissionService) ListSubmissions(ctx context.Context) ([]*models.Submission, error) {
	if s.repo == nil {
		return nil, errors.New("submission repository not set")
	}
	return s.repo.List(ctx)
}

// submissionInput is the allow-listed, validated view of the text fields.
// required is deliberately absent from the rate tags: 0 is a legal rate
// and presence is checked during field mapping instead.
type submissionInput struct {
	FirstName    string  `validate:"required"`
	LastName     string  `validate:"required"`
	Email        string  `validate:"required,email"`
	Phone        string  `validate:"required"`
	Address      string  `validate:"required"`
	City         string  `validate:"required"`
	ZipCode      string  `validate:"required"`
	Country      string  `validate:"required"`
	TaxNumber    string  `validate:"required"`
	VATNumber    string
	BankDetails  string  `validate:"required"`
	HourlyRate   float64 `validate:"min=0,max=1000"`
	HalfHourRate float64 `validate:"min=0,max=1000"`
}

var validate = validator.New()

// buildSubmission maps the collected text fields onto the allow-listed
// input struct, rejecting unrecognized keys, then validates and
// normalizes it into a Submission.
func buildSubmission(fields map[string]string) (*models.Submission, error) {
	var in submissionInput
	var sawHourlyRate, sawHalfHourRate bool

	for name, value := range fields {
		value = strings.TrimSpace(value)
		switch name {
		case "firstName":
			in.FirstName = value
		case "lastName":
			in.LastName = value
		case "email":
			in.Email = strings.ToLower(value)
		case "phone":
			in.Phone = value
		case "address":
			in.Address = value
		case "city":
			in.City = value
		case "zipCode":
			in.ZipCode = value
		case "country":
			in.Country = value
		case "taxNumber":
			in.TaxNumber = value
		case "vatNumber":
			in.VATNumber = value
		case "bankDetails":
			in.BankDetails = value
		case "hourlyRate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &ValidationError{Message: "hourlyRate must be a number"}
			}
			in.HourlyRate = rate
			sawHourlyRate = true
		case "halfHourRate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &ValidationError{Message: "halfHourRate must be a number"}
			}
			in.HalfHourRate = rate
			sawHalfHourRate = true
		default:
			return nil, &ValidationError{Message: fmt.Sprintf("unrecognized field: %s", name)}
		}
	}

	if !sawHourlyRate {
		return nil, &ValidationError{Message: "hourlyRate is required"}
	}
	if !sawHalfHourRate {
		return nil, &ValidationError{Message: "halfHourRate is required"}
	}

	if err := validate.Struct(&in); err != nil {
		return nil, &ValidationError{Message: validationMessage(err)}
	}

	return &models.Submission{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		City:         in.City,
		ZipCode:      in.ZipCode,
		Country:      in.Country,
		TaxNumber:    in.TaxNumber,
		VATNumber:    in.VATNumber,
		BankDetails:  in.BankDetails,
		HourlyRate:   in.HourlyRate,
		HalfHourRate: in.HalfHourRate,
	}, nil
}

// validationMessage flattens the first field error into a short message
// safe to return to the client.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "email":
			return fmt.Sprintf("%s must be a valid email address", field)
		case "min", "max":
			return fmt.Sprintf("%s must be between 0 and 1000", field)
		}
		return fmt.Sprintf("%s is invalid", field)
	}
	return "invalid form data"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
