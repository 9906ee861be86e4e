package validator

import (
	"errors"
	"regexp"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{2,31}$`)

// ValidateUsername enforces the account naming rules: 3-32 characters,
// alphanumeric with dots, underscores and hyphens, starting alphanumeric.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return errors.New("username must be 3-32 characters: letters, digits, '.', '_' or '-'")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password must be at most 128 characters")
	}
	return nil
}
