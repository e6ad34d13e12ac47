package accounts

import (
	"regexp"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks the address format.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}

// ValidatePassword requires MinPasswordLength characters with at least one
// letter and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	if len([]rune(password)) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return &ValidationError{Field: "password", Message: "must contain a letter and a digit"}
	}
	return nil
}

// ValidateUsername requires a non-blank username without commas or line breaks.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if strings.ContainsAny(username, "\r\n") {
		return &ValidationError{Field: "username", Message: "must be a single line"}
	}
	return nil
}

// normalizeUsername is the form usernames are compared in.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
