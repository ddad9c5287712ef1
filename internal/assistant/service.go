// Package assistant provides the vacancy search use cases driven by the
// interactive menu and the HTTP API: fetch-and-store, top by salary and
// keyword filtering.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

// TopSalaryQueryValue is the literal value the top-by-salary listing asks
// storage for. Stored salaries are numbers, so the lookup usually matches
// nothing; see DESIGN.md.
const TopSalaryQueryValue = "max"

// ErrInvalidLimit is returned when a top-N limit is not positive.
var ErrInvalidLimit = errors.New("assistant: limit must be positive")

// SearchResult summarises a fetch-and-store run.
type SearchResult struct {
	// Query is the search text sent to the source.
	Query string
	// Page is the zero-based page fetched.
	Page int
	// Found is the number of records the source returned.
	Found int
	// Stored is the number of vacancies now in storage.
	Stored int
}

// Service coordinates a vacancy Source and a vacancy Storage.
// It issues one source call or one storage operation at a time and does
// not serialize concurrent callers.
type Service struct {
	source   vacancy.Source
	store    vacancy.Storage
	logger   *slog.Logger
	validate bool
}

// Option configures a Service.
type Option func(*Service)

// WithValidation enables or disables validating fetched vacancies before
// they are stored. Enabled by default.
func WithValidation(enabled bool) Option {
	return func(s *Service) {
		s.validate = enabled
	}
}

// NewService creates a new Service.
func NewService(source vacancy.Source, store vacancy.Storage, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		source:   source,
		store:    store,
		logger:   logger,
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search fetches one page of vacancies for query and stores them,
// replacing whatever was stored before.
func (s *Service) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	s.logger.Info("searching vacancies",
		slog.String("query", query),
		slog.Int("page", page),
	)

	recs, err := s.source.GetVacancies(ctx, query, page)
	if err != nil {
		s.logger.Error("failed to fetch vacancies",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if s.validate {
		for i, rec := range recs {
			if err := vacancy.ValidateSourceRecord(rec); err != nil {
				return nil, s.invalid(query, i, err)
			}
		}
	}

	vacancies := vacancy.FromRecords(recs)
	if s.validate {
		for i, v := range vacancies {
			if err := v.Validate(); err != nil {
				return nil, s.invalid(query, i, err)
			}
		}
	}

	if err := s.store.AddVacancies(ctx, vacancies); err != nil {
		s.logger.Error("failed to store vacancies",
			slog.Int("count", len(vacancies)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("vacancies stored",
		slog.String("query", query),
		slog.Int("count", len(vacancies)),
	)

	return &SearchResult{
		Query:  query,
		Page:   page,
		Found:  len(recs),
		Stored: len(vacancies),
	}, nil
}

// invalid logs a rejected search result and wraps err with its position.
func (s *Service) invalid(query string, index int, err error) error {
	s.logger.Error("fetched vacancy failed validation",
		slog.String("query", query),
		slog.Int("index", index),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("vacancy %d: %w", index, err)
}

// TopBySalary returns at most n vacancies, highest salary first.
//
// The candidates come from storage.GetVacancies("salary", "max"), exactly
// as the menu has always asked; the sort happens here.
func (s *Service) TopBySalary(ctx context.Context, n int) ([]vacancy.Vacancy, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	vs, err := s.store.GetVacancies(ctx, vacancy.FieldSalary, TopSalaryQueryValue)
	if err != nil {
		return nil, err
	}

	vacancy.SortBySalaryDesc(vs)
	if len(vs) > n {
		vs = vs[:n]
	}

	s.logger.Debug("top vacancies by salary",
		slog.Int("requested", n),
		slog.Int("returned", len(vs)),
	)
	return vs, nil
}

// ByKeyword returns the stored vacancies whose description equals keyword.
func (s *Service) ByKeyword(ctx context.Context, keyword string) ([]vacancy.Vacancy, error) {
	return s.store.GetVacancies(ctx, vacancy.FieldDescription, keyword)
}

// Find returns the stored vacancies whose key field equals value.
func (s *Service) Find(ctx context.Context, key, value string) ([]vacancy.Vacancy, error) {
	return s.store.GetVacancies(ctx, key, value)
}

// Delete removes the stored vacancies whose key field equals value.
func (s *Service) Delete(ctx context.Context, key, value string) error {
	if err := s.store.DeleteVacancies(ctx, key, value); err != nil {
		return err
	}
	s.logger.Info("vacancies deleted",
		slog.String("key", key),
		slog.String("value", value),
	)
	return nil
}
