package uploadguard

import (
	"fmt"
	"strings"
)

const (
	// MaxFileBytes is the per-file upload cap (5 MB).
	MaxFileBytes = 5242880
	// MaxFeedbackAttachments is the cap on attachments per feedback submission.
	MaxFeedbackAttachments = 3
	// MaxProfilePhotos is the cap on profile pictures (each upload replaces the last).
	MaxProfilePhotos = 1
)

// allowedTypes is the explicit content-type allow-list for attachments.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Reason classifies why a file was rejected.
type Reason string

const (
	ReasonTooLarge     Reason = "too_large"
	ReasonBadType      Reason = "bad_type"
	ReasonTooManyFiles Reason = "too_many_files"
)

// RejectionError reports a rejected file with a distinguishable reason.
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// CheckFile validates a single candidate against the size cap and the
// explicit JPEG/PNG/WebP allow-list. Returns nil when the file is acceptable.
func CheckFile(size int64, contentType string) error {
	if size > MaxFileBytes {
		return &RejectionError{
			Reason:  ReasonTooLarge,
			Message: fmt.Sprintf("File exceeds the %d byte limit", MaxFileBytes),
		}
	}
	if !allowedTypes[normalizeType(contentType)] {
		return &RejectionError{
			Reason:  ReasonBadType,
			Message: "File type must be JPEG, PNG, or WebP",
		}
	}
	return nil
}

// CheckImageWildcard validates a single candidate against the size cap and a
// generic image/* content-type match. The profile photo upload path uses this
// wildcard check instead of the explicit allow-list used for feedback
// attachments; the two call sites intentionally diverge.
func CheckImageWildcard(size int64, contentType string) error {
	if size > MaxFileBytes {
		return &RejectionError{
			Reason:  ReasonTooLarge,
			Message: fmt.Sprintf("File exceeds the %d byte limit", MaxFileBytes),
		}
	}
	if !strings.HasPrefix(normalizeType(contentType), "image/") {
		return &RejectionError{
			Reason:  ReasonBadType,
			Message: "File must be an image",
		}
	}
	return nil
}

// CheckBatch rejects the whole add when accepting the new files would push
// the selected count past max. Already-queued files are untouched.
func CheckBatch(queued, adding, max int) error {
	if queued+adding > max {
		return &RejectionError{
			Reason:  ReasonTooManyFiles,
			Message: fmt.Sprintf("At most %d attachments are allowed", max),
		}
	}
	return nil
}

func normalizeType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	// Strip parameters like "; charset=..." if a client sends them.
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}
