package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SearchQuery identifies the comic a caller is looking for.
// An empty IssueNumber and a zero Year mean "not provided".
type SearchQuery struct {
	Series      string `json:"series" validate:"required,max=200"`
	IssueNumber string `json:"issue_number,omitempty" validate:"max=16"`
	Year        int    `json:"year,omitempty" validate:"omitempty,min=1800,max=2200"`
}

// HasIssueNumber reports whether an issue number was supplied.
func (q SearchQuery) HasIssueNumber() bool {
	return q.IssueNumber != ""
}

// HasYear reports whether a year was supplied.
func (q SearchQuery) HasYear() bool {
	return q.Year != 0
}

// Normalized returns a copy with surrounding whitespace and a leading "#"
// removed from the text fields.
func (q SearchQuery) Normalized() SearchQuery {
	q.Series = strings.TrimSpace(q.Series)
	q.IssueNumber = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(q.IssueNumber), "#"))
	return q
}

var queryValidator = newQueryValidator()

func newQueryValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the (normalized) query and returns a *ValidationError
// describing the first offending field.
func (q SearchQuery) Validate() error {
	n := q.Normalized()
	if err := queryValidator.Struct(n); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return NewValidationError(fe.Field(), validationMessage(fe))
		}
		return NewValidationError("query", err.Error())
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
