package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tutorform-backend/models"

	"github.com/google/uuid"
)

// MemorySubmissionRepository is an in-memory submission store with the
// same uniqueness semantics as the Postgres repository. Used in tests.
type MemorySubmissionRepository struct {
	mu          sync.Mutex
	submissions []*models.Submission
}

// NewMemorySubmissionRepository creates an empty in-memory repository
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{}
}

// Create stores a submission, enforcing email (case-insensitive) and
// tax number uniqueness.
func (r *MemorySubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.submissions {
		if strings.EqualFold(existing.Email, submission.Email) {
			return ErrDuplicateEmail
		}
		if existing.TaxNumber == submission.TaxNumber {
			return ErrDuplicateTaxNumber
		}
	}

	now := time.Now()
	stored := *submission
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.submissions = append(r.submissions, &stored)

	submission.ID = stored.ID
	submission.CreatedAt = stored.CreatedAt
	submission.UpdatedAt = stored.UpdatedAt
	return nil
}

// List returns stored submissions newest first, with the internal
// provenance fields blanked the way the Postgres projection omits them.
func (r *MemorySubmissionRepository) List(ctx context.Context) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		view := *s
		view.IPAddress = ""
		view.UserAgent = ""
		view.UpdatedAt = time.Time{}
		out = append(out, &view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
