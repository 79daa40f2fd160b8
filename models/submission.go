package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AttachmentCategory names one of the six document groups a file part
// may be submitted under.
type AttachmentCategory string

const (
	CategoryIdentityDocument   AttachmentCategory = "identityDocument"
	CategoryResidencyProof     AttachmentCategory = "residencyProof"
	CategoryQualifications     AttachmentCategory = "qualifications"
	CategoryBusinessPermit     AttachmentCategory = "businessPermit"
	CategoryLiabilityInsurance AttachmentCategory = "liabilityInsurance"
	CategoryCompanyStatutes    AttachmentCategory = "companyStatutes"
)

// AttachmentCategories lists every recognized category. File parts under
// any other field name are rejected.
var AttachmentCategories = []AttachmentCategory{
	CategoryIdentityDocument,
	CategoryResidencyProof,
	CategoryQualifications,
	CategoryBusinessPermit,
	CategoryLiabilityInsurance,
	CategoryCompanyStatutes,
}

// IsAttachmentCategory reports whether name is one of the six categories.
func IsAttachmentCategory(name string) bool {
	for _, c := range AttachmentCategories {
		if string(c) == name {
			return true
		}
	}
	return false
}

// FileAttachment describes one uploaded document. The bytes live on the
// storage backend at StoragePath; the record only carries metadata.
type FileAttachment struct {
	OriginalName   string `json:"originalname"`
	SanitizedName  string `json:"cleanname"`
	MimeType       string `json:"mimetype"`
	SizeBytes      int64  `json:"size"`
	StoragePath    string `json:"path"`
	StoredFilename string `json:"filename"`
}

// FileAttachmentList is a JSONB-backed slice of attachments.
type FileAttachmentList []FileAttachment

// Value implements driver.Valuer for JSONB
func (l FileAttachmentList) Value() (driver.Value, error) {
	if l == nil {
		l = FileAttachmentList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *FileAttachmentList) Scan(value interface{}) error {
	if value == nil {
		*l = FileAttachmentList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FileAttachmentList", value)
	}

	if len(bytes) == 0 {
		*l = FileAttachmentList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Submission represents one onboarding form entry. IPAddress, UserAgent
// and UpdatedAt are internal: they are captured server-side and never
// serialized back to clients.
type Submission struct {
	ID uuid.UUID `json:"id"`

	// Personal information
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	// Address information
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`

	// Professional information
	TaxNumber   string `json:"taxNumber"`
	VATNumber   string `json:"vatNumber,omitempty"`
	BankDetails string `json:"bankDetails"`

	// Pricing information
	HourlyRate   float64 `json:"hourlyRate"`
	HalfHourRate float64 `json:"halfHourRate"`

	// Uploaded documents, grouped by category
	IdentityDocument   FileAttachmentList `json:"identityDocument"`
	ResidencyProof     FileAttachmentList `json:"residencyProof"`
	Qualifications     FileAttachmentList `json:"qualifications"`
	BusinessPermit     FileAttachmentList `json:"businessPermit"`
	LiabilityInsurance FileAttachmentList `json:"liabilityInsurance"`
	CompanyStatutes    FileAttachmentList `json:"companyStatutes"`

	// Request provenance, captured server-side
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Attachments returns a pointer to the list for the given category, or
// nil when the category is not recognized.
func (s *Submission) Attachments(category AttachmentCategory) *FileAttachmentList {
	switch category {
	case CategoryIdentityDocument:
		return &s.IdentityDocument
	case CategoryResidencyProof:
		return &s.ResidencyProof
	case CategoryQualifications:
		return &s.Qualifications
	case CategoryBusinessPermit:
		return &s.BusinessPermit
	case CategoryLiabilityInsurance:
		return &s.LiabilityInsurance
	case CategoryCompanyStatutes:
		return &s.CompanyStatutes
	}
	return nil
}
