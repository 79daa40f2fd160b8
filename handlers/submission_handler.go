package handlers

import (
	"errors"
	"net/http"

	"tutorform-backend/models"
	"tutorform-backend/repository"
	"tutorform-backend/service"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler handles HTTP requests for form submissions
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit handles POST /api/submit-form
func (h *SubmissionHandler) Submit(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Request must be multipart/form-data",
		})
		return
	}

	userAgent := c.Request.UserAgent()
	if userAgent == "" {
		userAgent = "Unknown User Agent"
	}

	result, err := h.submissionService.Submit(c.Request.Context(), service.SubmitRequest{
		Reader:    reader,
		IPAddress: c.ClientIP(),
		UserAgent: userAgent,
	})
	if err != nil {
		status, message := submitErrorResponse(err)
		c.JSON(status, gin.H{
			"success": false,
			"message": message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Form submitted successfully!",
		"data": gin.H{
			"id": result.Submission.ID,
		},
	})
}

// List handles GET /api/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	submissions, err := h.submissionService.ListSubmissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch submissions",
		})
		return
	}

	// data is an array on every success, never null.
	if submissions == nil {
		submissions = []*models.Submission{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(submissions),
		"data":    submissions,
	})
}

// submitErrorResponse maps a submission failure to an HTTP status and a
// client-safe message. Validation and duplicate errors are the client's
// to fix (400); upload and everything else stay server-side (500) with
// no detail exposed.
func submitErrorResponse(err error) (int, string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateTaxNumber) {
		return http.StatusBadRequest, err.Error()
	}

	var uploadErr *service.UploadError
	if errors.As(err, &uploadErr) {
		return http.StatusInternalServerError, "File upload failed"
	}

	return http.StatusInternalServerError, "Internal server error"
}
