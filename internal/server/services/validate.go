package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^([0-9a-zA-Z]([-.\w]*[0-9a-zA-Z])*@([0-9a-zA-Z][-\w]*[0-9a-zA-Z]\.)+[a-zA-Z]{2,9})$`)

// RegisterInput carries the register mutation arguments.
type RegisterInput struct {
	Username        string `json:"username" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,feedemail"`
	Password        string `json:"password" validate:"required,passwordbytes"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type loginInput struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type postInput struct {
	Body string `json:"body" validate:"notblank"`
}

type commentInput struct {
	Body string `json:"body" validate:"notblank"`
}

// messages maps "<type>.<field>.<tag>" to the client-facing text.
var messages = map[string]string{
	"RegisterInput.username.notblank":       "Username must not be empty",
	"RegisterInput.email.notblank":          "Email must not be empty",
	"RegisterInput.email.feedemail":         "Email must be a valid email address",
	"RegisterInput.password.required":       "Password must not empty",
	"RegisterInput.password.passwordbytes":  "Password must be at most 72 bytes",
	"RegisterInput.confirmPassword.eqfield": "Passwords must match",
	"loginInput.username.notblank":          "Username must not be empty",
	"loginInput.password.notblank":          "Password must not be empty",
	"postInput.body.notblank":               "Post body must not be empty",
	"commentInput.body.notblank":            "Comment body must not empty",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("feedemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("passwordbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})

	return v
}

// fieldErrors runs v over in and returns the failing fields keyed by their
// json name, or nil when in is valid.
func fieldErrors(v *validator.Validate, in any) (map[string]string, error) {
	err := v.Struct(in)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.StructNamespace()
		key = key[:strings.IndexByte(key, '.')] + "." + fe.Field() + "." + fe.Tag()
		if msg, ok := messages[key]; ok {
			fields[fe.Field()] = msg
		} else {
			fields[fe.Field()] = fe.Error()
		}
	}
	return fields, nil
}

// validate returns an apperr validation error for invalid input.
func validate(v *validator.Validate, in any) error {
	fields, err := fieldErrors(v, in)
	if err != nil {
		return apperr.Store(err)
	}
	if fields == nil {
		return nil
	}
	return apperr.Validation(fields)
}

// validateRegister checks the password match only when the password itself
// passed.
func validateRegister(v *validator.Validate, in RegisterInput) error {
	fields, err := fieldErrors(v, in)
	if err != nil {
		return apperr.Store(err)
	}
	if fields == nil {
		return nil
	}
	if _, ok := fields["password"]; ok {
		delete(fields, "confirmPassword")
	}
	return apperr.Validation(fields)
}
