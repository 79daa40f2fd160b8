package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"

	"tutorform-backend/models"
	"tutorform-backend/storage"
)

// MaxFileSize is the per-file upload limit (20 MiB).
const MaxFileSize = 20 * 1024 * 1024

// maxFieldSize caps plain text field values.
const maxFieldSize = 1 << 20

// UploadError reports a failure to durably write an uploaded file.
// It aborts the whole submission.
type UploadError struct {
	err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("file upload failed: %v", e.err)
}

func (e *UploadError) Unwrap() error {
	return e.err
}

// IntakeResult holds everything collected from one multipart body:
// the text fields (last value wins on repeats) and the uploaded files
// grouped by attachment category.
type IntakeResult struct {
	Fields map[string]string
	Files  map[models.AttachmentCategory]models.FileAttachmentList
}

// IntakeService drives the multipart body of a submission request,
// streaming file parts to storage one at a time and accumulating text
// fields along the way.
type IntakeService struct {
	storage storage.Storage
}

// NewIntakeService creates a new intake service
func NewIntakeService(st storage.Storage) *IntakeService {
	return &IntakeService{storage: st}
}

// Collect consumes the part stream in arrival order. The reader is
// single-pass; Collect is its only consumer. Each file part is fully
// written before the next part is read, so at most one upload stream is
// open at a time. A file part under a field name that is not one of the
// six attachment categories rejects the request.
func (s *IntakeService) Collect(ctx context.Context, reader *multipart.Reader) (*IntakeResult, error) {
	result := &IntakeResult{
		Fields: make(map[string]string),
		Files:  make(map[models.AttachmentCategory]models.FileAttachmentList),
	}
	for _, category := range models.AttachmentCategories {
		result.Files[category] = models.FileAttachmentList{}
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &UploadError{err: err}
		}

		fieldName := part.FormName()
		if fieldName == "" {
			part.Close()
			continue
		}

		if hasFilename(part) {
			if !models.IsAttachmentCategory(fieldName) {
				part.Close()
				return nil, &ValidationError{Message: fmt.Sprintf("unrecognized attachment category: %s", fieldName)}
			}
			attachment, err := s.saveFilePart(ctx, part)
			part.Close()
			if err != nil {
				return nil, err
			}
			category := models.AttachmentCategory(fieldName)
			result.Files[category] = append(result.Files[category], *attachment)
			continue
		}

		value, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
		part.Close()
		if err != nil {
			return nil, &UploadError{err: err}
		}
		result.Fields[fieldName] = string(value)
	}

	return result, nil
}

// hasFilename reports whether the part's Content-Disposition carries a
// filename parameter at all. part.FileName() alone cannot tell a missing
// filename from an empty one, and browsers send filename="" for an
// untouched file input.
func hasFilename(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

// saveFilePart writes one file part to storage and builds its metadata
// descriptor. Size comes from the storage backend, never from the client.
func (s *IntakeService) saveFilePart(ctx context.Context, part *multipart.Part) (*models.FileAttachment, error) {
	originalName := part.FileName()
	if originalName == "" {
		originalName = "unnamed"
	}

	// The extra byte distinguishes "exactly at the limit" from "over it".
	limited := io.LimitReader(part, MaxFileSize+1)
	storagePath, storedName, size, err := s.storage.Upload(ctx, originalName, limited)
	if err != nil {
		return nil, &UploadError{err: err}
	}

	if size > MaxFileSize {
		s.storage.Delete(ctx, storagePath)
		return nil, &ValidationError{Message: fmt.Sprintf("file %s exceeds the maximum size of %d bytes", originalName, MaxFileSize)}
	}

	mimeType := part.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &models.FileAttachment{
		OriginalName:   originalName,
		SanitizedName:  storage.SanitizeFilename(originalName),
		MimeType:       mimeType,
		SizeBytes:      size,
		StoragePath:    storagePath,
		StoredFilename: storedName,
	}, nil
}
