package vacancy

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("text", func(fl validator.FieldLevel) bool {
		return utf8.ValidString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the field type contracts: salary must be a finite number
// and title, url and description must be valid text.
// It is never called implicitly.
func (v Vacancy) Validate() error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	reason := "must be a string"
	if fe.Tag() == "finite" {
		reason = "must be a number"
	}
	return &ValidationError{Field: fe.Field(), Reason: reason}
}

// ValidateRecord checks the type contracts of a flat raw record before it is
// trusted: title, url and description must be strings when present, and
// salary must be numeric or null.
func ValidateRecord(rec Record) error {
	if !isNumeric(rec[FieldSalary]) {
		return &ValidationError{Field: FieldSalary, Reason: "must be a number"}
	}
	for _, k := range []string{FieldTitle, FieldURL, FieldDescription} {
		raw, ok := rec[k]
		if !ok || raw == nil {
			continue
		}
		if _, ok := raw.(string); !ok {
			return &ValidationError{Field: k, Reason: "must be a string"}
		}
	}
	return nil
}

// ValidateSourceRecord checks a record fetched from a job board before it is
// converted. Every field FromRecord reads text from (title, name, url,
// alternate_url, description) must be a string when present. Salary is not
// checked here since FromRecord turns any unusable salary into 0.
func ValidateSourceRecord(rec Record) error {
	for _, k := range []string{FieldTitle, "name", FieldURL, "alternate_url", FieldDescription} {
		raw, ok := rec[k]
		if !ok || raw == nil {
			continue
		}
		if _, ok := raw.(string); !ok {
			return &ValidationError{Field: k, Reason: "must be a string"}
		}
	}
	return nil
}

func isNumeric(raw any) bool {
	switch raw.(type) {
	case nil, float64, float32, int, int64, uint64, json.Number:
		return true
	default:
		return false
	}
}
