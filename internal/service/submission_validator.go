package service

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/portfolio-api/internal/dto"
)

// Field error codes returned to form clients.
const (
	CodeMissingField = "missingField"
	CodeInvalidEmail = "invalidEmail"
	CodeInvalidPhone = "invalidPhone"
	CodeTooLong      = "tooLong"
	CodeInvalid      = "invalid"
)

const minPhoneDigits = 10

// messages keyed by field then validation tag.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Please enter your name.",
		"max":      "Name is too long. Maximum 100 characters allowed.",
	},
	"email": {
		"required": "Please enter your email address.",
		"email":    "Please enter a valid email address.",
	},
	"phone": {
		"max":          "Phone number is too long. Maximum 20 characters allowed.",
		"phone_digits": "Phone number must be at least 10 digits.",
	},
	"subject": {
		"required": "Please enter a subject.",
		"max":      "Subject is too long. Maximum 200 characters allowed.",
	},
	"message": {
		"required": "Please enter your message.",
		"max":      "Message is too long. Maximum 2000 characters allowed.",
	},
}

var tagCodes = map[string]string{
	"required":     CodeMissingField,
	"email":        CodeInvalidEmail,
	"phone_digits": CodeInvalidPhone,
	"max":          CodeTooLong,
}

// SubmissionValidator checks public form payloads. It performs no I/O.
type SubmissionValidator struct {
	validate *validator.Validate
}

// NewSubmissionValidator builds a validator whose field names follow the form keys.
func NewSubmissionValidator() *SubmissionValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return CountDigits(fl.Field().String()) >= minPhoneDigits
	})
	return &SubmissionValidator{validate: v}
}

// ValidateContact trims the form and checks every field. The returned errors map is
// empty when the draft is valid.
func (v *SubmissionValidator) ValidateContact(form dto.ContactForm) (dto.ContactForm, dto.FieldErrors) {
	draft := dto.ContactForm{
		Name:            strings.TrimSpace(form.Name),
		Email:           strings.TrimSpace(form.Email),
		Phone:           strings.TrimSpace(form.Phone),
		ServiceInterest: strings.TrimSpace(form.ServiceInterest),
		Subject:         strings.TrimSpace(form.Subject),
		Message:         strings.TrimSpace(form.Message),
	}
	return draft, v.check(draft)
}

// ValidateQuote trims the form and checks every field.
func (v *SubmissionValidator) ValidateQuote(form dto.QuoteForm) (dto.QuoteForm, dto.FieldErrors) {
	draft := dto.QuoteForm{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Phone:   strings.TrimSpace(form.Phone),
		Message: strings.TrimSpace(form.Message),
		Package: strings.TrimSpace(form.Package),
	}
	return draft, v.check(draft)
}

func (v *SubmissionValidator) check(draft interface{}) dto.FieldErrors {
	problems := dto.FieldErrors{}
	err := v.validate.Struct(draft)
	if err == nil {
		return problems
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		problems.Add("non_field_errors", CodeInvalid, err.Error())
		return problems
	}
	for _, fe := range verrs {
		field := fe.Field()
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = CodeInvalid
		}
		message := fieldMessages[field][fe.Tag()]
		if message == "" {
			message = "Please correct this field."
		}
		problems.Add(field, code, message)
	}
	return problems
}

// CountDigits returns how many decimal digits s contains.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// ServiceChoiceValue derives the contact-form value of a service name.
func ServiceChoiceValue(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// MatchesChoice reports whether value is empty or one of the offered choices.
func MatchesChoice(value string, choices []dto.ServiceChoice) bool {
	if value == "" {
		return true
	}
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
