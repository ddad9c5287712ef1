// Package server provides the HTTP API for the vacancy assistant.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "github.com/maauso/vacancy-assistant/internal/vacancy"

// SearchRequest is the HTTP request body for fetching and storing vacancies.
type SearchRequest struct {
	// Query is the search text sent to the job board.
	Query string `json:"query" validate:"required,max=512"`
	// Page is the zero-based result page.
	Page int `json:"page" validate:"min=0"`
}

// SearchResponse is the HTTP response after a search has been stored.
type SearchResponse struct {
	// Query echoes the search text.
	Query string `json:"query"`
	// Page echoes the page fetched.
	Page int `json:"page"`
	// Found is the number of vacancies returned by the job board.
	Found int `json:"found"`
	// Stored is the number of vacancies now stored.
	Stored int `json:"stored"`
}

// FilterQuery holds the field-equality filter parameters.
type FilterQuery struct {
	Key   string `validate:"required,oneof=title url salary description"`
	Value string
}

// TopQuery holds the top-N parameters.
type TopQuery struct {
	N int `validate:"required,min=1,max=1000"`
}

// VacancyResponse is the HTTP representation of a vacancy.
type VacancyResponse struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Salary      float64 `json:"salary"`
	Description string  `json:"description"`
}

// ListResponse is the HTTP response for vacancy listings.
type ListResponse struct {
	// Count is the number of vacancies in the listing.
	Count int `json:"count"`
	// Vacancies holds the listed vacancies in order.
	Vacancies []VacancyResponse `json:"vacancies"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

func toListResponse(vs []vacancy.Vacancy) ListResponse {
	out := ListResponse{Count: len(vs), Vacancies: make([]VacancyResponse, 0, len(vs))}
	for _, v := range vs {
		out.Vacancies = append(out.Vacancies, VacancyResponse{
			Title:       v.Title,
			URL:         v.URL,
			Salary:      v.Salary,
			Description: v.Description,
		})
	}
	return out
}
