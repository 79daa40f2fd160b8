package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorform-backend/models"

	"github.com/google/uuid"
)

func sampleSubmission(email, taxNumber string) *models.Submission {
	return &models.Submission{
		FirstName:    "Marie",
		LastName:     "Curie",
		Email:        email,
		Phone:        "+33600000000",
		Address:      "1 rue des Écoles",
		City:         "Paris",
		ZipCode:      "75005",
		Country:      "France",
		TaxNumber:    taxNumber,
		BankDetails:  "FR76 0000 0000 0000",
		HourlyRate:   45,
		HalfHourRate: 25,
		IPAddress:    "203.0.113.7",
		UserAgent:    "test-agent",
	}
}

func TestMemoryCreateAssignsIdentity(t *testing.T) {
	repo := NewMemorySubmissionRepository()

	sub := sampleSubmission("a@example.com", "TAX-1")
	if err := repo.Create(context.Background(), sub); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if sub.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if sub.CreatedAt.IsZero() || sub.UpdatedAt.IsZero() {
		t.Fatalf("expected server-assigned timestamps")
	}
}

func TestMemoryDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := NewMemorySubmissionRepository()

	if err := repo.Create(context.Background(), sampleSubmission("a@example.com", "TAX-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.Create(context.Background(), sampleSubmission("A@EXAMPLE.COM", "TAX-2"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	list, _ := repo.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("duplicate must not be stored, have %d", len(list))
	}
}

func TestMemoryDuplicateTaxNumber(t *testing.T) {
	repo := NewMemorySubmissionRepository()

	if err := repo.Create(context.Background(), sampleSubmission("a@example.com", "TAX-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.Create(context.Background(), sampleSubmission("b@example.com", "TAX-1"))
	if !errors.Is(err, ErrDuplicateTaxNumber) {
		t.Fatalf("expected ErrDuplicateTaxNumber, got %v", err)
	}
}

func TestMemoryListNewestFirstAndProjected(t *testing.T) {
	repo := NewMemorySubmissionRepository()

	if err := repo.Create(context.Background(), sampleSubmission("first@example.com", "TAX-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := repo.Create(context.Background(), sampleSubmission("second@example.com", "TAX-2")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(list))
	}
	if list[0].Email != "second@example.com" {
		t.Fatalf("expected newest submission first, got %q", list[0].Email)
	}

	for _, s := range list {
		if s.IPAddress != "" || s.UserAgent != "" {
			t.Fatalf("provenance fields must be projected out of list results")
		}
		if !s.UpdatedAt.IsZero() {
			t.Fatalf("updated_at must be projected out of list results")
		}
	}
}
