package handler

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"assignboard/internal/auth"
)

// Column sizes of the users and assignments tables.
const (
	maxNameLen        = 100
	maxEmailLen       = 100
	maxTitleLen       = 200
	maxDescriptionLen = 500
)

// FormError is a user-facing validation failure for one field.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// DecodeSignup reads and validates the signup form. On a validation failure
// it still returns the decoded input so the form can be refilled.
func DecodeSignup(r *http.Request) (SignupInput, error) {
	if err := r.ParseForm(); err != nil {
		return SignupInput{}, fmt.Errorf("parse form: %w", err)
	}

	in := SignupInput{
		Name:            strings.TrimSpace(r.PostFormValue("name")),
		Email:           normalizeEmail(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	switch {
	case in.Name == "":
		return in, &FormError{Field: "name", Message: "All fields are required!"}
	case in.Email == "":
		return in, &FormError{Field: "email", Message: "All fields are required!"}
	case in.Password == "" || in.ConfirmPassword == "":
		return in, &FormError{Field: "password", Message: "All fields are required!"}
	case in.Password != in.ConfirmPassword:
		return in, &FormError{Field: "confirm_password", Message: "Passwords do not match!"}
	case utf8.RuneCountInString(in.Name) > maxNameLen:
		return in, &FormError{Field: "name", Message: fmt.Sprintf("Name must be at most %d characters.", maxNameLen)}
	case utf8.RuneCountInString(in.Email) > maxEmailLen:
		return in, &FormError{Field: "email", Message: fmt.Sprintf("Email must be at most %d characters.", maxEmailLen)}
	case !validEmail(in.Email):
		return in, &FormError{Field: "email", Message: "Please enter a valid email address."}
	case len(in.Password) > auth.MaxPasswordBytes:
		return in, &FormError{Field: "password", Message: fmt.Sprintf("Password must be at most %d bytes.", auth.MaxPasswordBytes)}
	}

	return in, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func DecodeLogin(r *http.Request) (LoginInput, error) {
	if err := r.ParseForm(); err != nil {
		return LoginInput{}, fmt.Errorf("parse form: %w", err)
	}

	in := LoginInput{
		Email:    normalizeEmail(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if in.Email == "" || in.Password == "" {
		return in, &FormError{Field: "email", Message: "Invalid email or password!"}
	}
	return in, nil
}

// AssignmentInput backs both the create form on the dashboard and the update form.
type AssignmentInput struct {
	Title       string
	Description string
}

func DecodeAssignment(r *http.Request) (AssignmentInput, error) {
	if err := r.ParseForm(); err != nil {
		return AssignmentInput{}, fmt.Errorf("parse form: %w", err)
	}

	in := AssignmentInput{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("desc")),
	}

	switch {
	case in.Title == "" || in.Description == "":
		return in, &FormError{Field: "title", Message: "Title and Description are required!"}
	case utf8.RuneCountInString(in.Title) > maxTitleLen:
		return in, &FormError{Field: "title", Message: fmt.Sprintf("Title must be at most %d characters.", maxTitleLen)}
	case utf8.RuneCountInString(in.Description) > maxDescriptionLen:
		return in, &FormError{Field: "desc", Message: fmt.Sprintf("Description must be at most %d characters.", maxDescriptionLen)}
	}

	return in, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// validEmail accepts a bare address only, no display name or angle brackets.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
