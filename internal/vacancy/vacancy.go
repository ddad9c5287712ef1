// Package vacancy provides the Vacancy entity, its salary-only ordering and
// validation rules, and the ports (Source, Storage) through which vacancies
// are fetched from a job board and persisted locally.
package vacancy

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Field names shared by raw records, stored documents and field-equality filters.
const (
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldSalary      = "salary"
	FieldDescription = "description"
)

// Fields lists every field a filter key may name, in document order.
var Fields = []string{FieldTitle, FieldURL, FieldSalary, FieldDescription}

// IsField reports whether key names a vacancy field.
func IsField(key string) bool {
	return slices.Contains(Fields, key)
}

// Record is a raw, unvalidated vacancy record as returned by a Source or
// decoded from a stored document.
type Record map[string]any

// Vacancy is a single job posting.
// Values are never mutated after construction.
type Vacancy struct {
	// Title is the posting headline.
	Title string `json:"title" yaml:"title" validate:"text"`
	// URL links to the posting.
	URL string `json:"url" yaml:"url" validate:"text"`
	// Salary is the numeric salary amount; 0 when the posting has none.
	Salary float64 `json:"salary" yaml:"salary" validate:"finite"`
	// Description is free text used by keyword filters.
	Description string `json:"description" yaml:"description" validate:"text"`
}

// New creates a Vacancy. A nil salary is stored as 0.
// No validation is performed; call Validate when the input is untrusted.
func New(title, url string, salary *float64, description string) Vacancy {
	v := Vacancy{Title: title, URL: url, Description: description}
	if salary != nil {
		v.Salary = *salary
	}
	return v
}

// FromRecord builds a Vacancy from a raw record.
//
// Both the flat stored shape ({title, url, salary, description}) and the
// hh.ru item shape ({name, alternate_url, salary: {from, to}, snippet}) are
// understood. A salary that is missing, null or unparseable becomes 0; a
// nested salary uses "from" and falls back to "to".
func FromRecord(rec Record) Vacancy {
	return Vacancy{
		Title:       firstString(rec, FieldTitle, "name"),
		URL:         firstString(rec, FieldURL, "alternate_url"),
		Salary:      salaryOf(rec[FieldSalary]),
		Description: descriptionOf(rec),
	}
}

// FromRecords converts every record with FromRecord, keeping order.
func FromRecords(recs []Record) []Vacancy {
	out := make([]Vacancy, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}

// Record returns the flat stored shape of the vacancy.
func (v Vacancy) Record() Record {
	return Record{
		FieldTitle:       v.Title,
		FieldURL:         v.URL,
		FieldSalary:      v.Salary,
		FieldDescription: v.Description,
	}
}

// Compare orders two vacancies by salary only.
func Compare(a, b Vacancy) int {
	return cmp.Compare(a.Salary, b.Salary)
}

// Equal reports whether both vacancies have the same salary.
// Title, URL and description are ignored; use SameRecord for full equality.
func (v Vacancy) Equal(other Vacancy) bool {
	return Compare(v, other) == 0
}

// Less reports whether v pays less than other.
func (v Vacancy) Less(other Vacancy) bool {
	return Compare(v, other) < 0
}

// Greater reports whether v pays more than other.
func (v Vacancy) Greater(other Vacancy) bool {
	return Compare(v, other) > 0
}

// SameRecord reports whether every field of both vacancies matches.
func (v Vacancy) SameRecord(other Vacancy) bool {
	return v == other
}

// SortBySalaryDesc sorts vacancies in place, highest salary first.
// Vacancies with equal salary keep their relative order.
func SortBySalaryDesc(vs []Vacancy) {
	slices.SortStableFunc(vs, func(a, b Vacancy) int {
		return Compare(b, a)
	})
}

func firstString(rec Record, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok {
			return s
		}
	}
	return ""
}

func descriptionOf(rec Record) string {
	if s, ok := rec[FieldDescription].(string); ok {
		return s
	}
	snippet, ok := rec["snippet"].(map[string]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, k := range []string{"requirement", "responsibility"} {
		if s, ok := snippet[k].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// salaryOf converts any supported salary representation to a number.
func salaryOf(raw any) float64 {
	switch s := raw.(type) {
	case float64:
		return s
	case float32:
		return float64(s)
	case int:
		return float64(s)
	case int64:
		return float64(s)
	case uint64:
		return float64(s)
	case json.Number:
		return parseSalary(string(s))
	case string:
		return parseSalary(s)
	case map[string]any:
		if from := salaryOf(s["from"]); from != 0 {
			return from
		}
		return salaryOf(s["to"])
	default:
		return 0
	}
}

// parseSalary parses salary text. Text that is not a finite number,
// including "NaN" and "Inf", yields 0.
func parseSalary(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
