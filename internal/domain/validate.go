package domain

import "regexp"

var (
	phonePattern = regexp.MustCompile(`^\+380\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidatePhoneNumber checks the Ukrainian mobile format used for
// employee contacts.
func ValidatePhoneNumber(v string) error {
	if !phonePattern.MatchString(v) {
		return &ValidationError{Field: "phone_number", Reason: "must be in format +380XXXXXXXXX"}
	}
	return nil
}

// ValidateEmail checks a minimal mailbox@host shape.
func ValidateEmail(v string) error {
	if !emailPattern.MatchString(v) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return nil
}

// ValidatePassword checks the registration password pair: minimum length
// eight and both entries matching.
func ValidatePassword(password, confirm string) error {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if password != confirm {
		return &ValidationError{Field: "password", Reason: "passwords do not match"}
	}
	return nil
}

// ValidateRequired checks that a free-text field is non-empty.
func ValidateRequired(field, v string) error {
	if v == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
