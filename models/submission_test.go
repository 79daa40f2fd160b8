package models

import (
	"testing"
)

func TestFileAttachmentListScan(t *testing.T) {
	var list FileAttachmentList

	if err := list.Scan(nil); err != nil {
		t.Fatalf("scanning nil: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("nil source must scan to an empty list, got %v", list)
	}

	raw := []byte(`[{"originalname":"passport.pdf","cleanname":"passport.pdf","mimetype":"application/pdf","size":12,"path":"/uploads/1-passport.pdf","filename":"1-passport.pdf"}]`)
	if err := list.Scan(raw); err != nil {
		t.Fatalf("scanning jsonb bytes: %v", err)
	}
	if len(list) != 1 || list[0].OriginalName != "passport.pdf" {
		t.Fatalf("unexpected scan result: %+v", list)
	}

	// A source type the driver should never produce must fail loudly,
	// not leave the previous value in place.
	if err := list.Scan(42); err == nil {
		t.Fatalf("expected error scanning unsupported source type")
	}
}
