package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field constraints for users.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	PasswordMinLength = 6
	PasswordMaxBytes  = 72 // bcrypt input limit
	EmailMaxLength    = 255
	AvatarMaxLength   = 512
)

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// ValidationError lists one message per offending field.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// NormalizeEmail trims surrounding whitespace and lowercases.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize returns a copy of u with normalized username, email and avatar.
func (u NewUser) Normalize() NewUser {
	u.Username = NormalizeUsername(u.Username)
	u.Email = NormalizeEmail(u.Email)
	u.Avatar = strings.TrimSpace(u.Avatar)
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
	return u
}

// Validate checks the field constraints of an already normalized user.
// It returns a *ValidationError or nil.
func (u NewUser) Validate() error {
	errs := make(map[string]string)

	switch n := utf8.RuneCountInString(u.Username); {
	case n == 0:
		errs["username"] = "Username is required."
	case n < UsernameMinLength:
		errs["username"] = fmt.Sprintf("Username must be at least %d characters long.", UsernameMinLength)
	case n > UsernameMaxLength:
		errs["username"] = fmt.Sprintf("Username must be at most %d characters long.", UsernameMaxLength)
	}

	switch {
	case u.Email == "":
		errs["email"] = "Email is required."
	case utf8.RuneCountInString(u.Email) > EmailMaxLength:
		errs["email"] = fmt.Sprintf("Email must be at most %d characters long.", EmailMaxLength)
	case !emailPattern.MatchString(u.Email):
		errs["email"] = "Please provide a valid email address."
	}

	switch {
	case u.Password == "":
		errs["password"] = "Password is required."
	case utf8.RuneCountInString(u.Password) < PasswordMinLength:
		errs["password"] = fmt.Sprintf("Password must be at least %d characters long.", PasswordMinLength)
	case len(u.Password) > PasswordMaxBytes:
		errs["password"] = fmt.Sprintf("Password must be at most %d bytes long.", PasswordMaxBytes)
	}

	if utf8.RuneCountInString(u.Avatar) > AvatarMaxLength {
		errs["avatar"] = fmt.Sprintf("Avatar must be at most %d characters long.", AvatarMaxLength)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
