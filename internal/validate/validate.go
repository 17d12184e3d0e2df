package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength    = 8
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 50
	MinFeedbackLength    = 10
	MinPainLevel         = 0
	MaxPainLevel         = 10
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError represents a validation failure scoped to a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Email validates email format for signup, signin, and password reset forms.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &FieldError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &FieldError{Field: "email", Message: "Email format is invalid"}
	}
	return nil
}

// Password validates the minimum password length.
func Password(password string) error {
	if password == "" {
		return &FieldError{Field: "password", Message: "Password is required"}
	}
	if len(password) < MinPasswordLength {
		return &FieldError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	return nil
}

// DisplayName validates the 2-50 character display name bound.
func DisplayName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinDisplayNameLength {
		return &FieldError{Field: "display_name", Message: "Display name must be at least 2 characters"}
	}
	if n > MaxDisplayNameLength {
		return &FieldError{Field: "display_name", Message: "Display name must be at most 50 characters"}
	}
	return nil
}

// Feedback validates the minimum feedback length.
func Feedback(text string) error {
	if strings.TrimSpace(text) == "" {
		return &FieldError{Field: "feedback", Message: "Feedback is required"}
	}
	if len(text) < MinFeedbackLength {
		return &FieldError{Field: "feedback", Message: "Feedback must be at least 10 characters long"}
	}
	return nil
}

// PainLevel validates the 0-10 integer pain level.
func PainLevel(level int) error {
	if level < MinPainLevel || level > MaxPainLevel {
		return &FieldError{Field: "level", Message: "Pain level must be between 0 and 10"}
	}
	return nil
}

// EntryDate validates the YYYY-MM-DD observation date string.
func EntryDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return &FieldError{Field: "entry_date", Message: "Date is required"}
	}
	if !dateRegex.MatchString(date) {
		return &FieldError{Field: "entry_date", Message: "Date must be in YYYY-MM-DD format"}
	}
	return nil
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
