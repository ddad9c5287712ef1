package vacancy

import "context"

// Source fetches vacancies from a remote job board.
type Source interface {
	// GetVacancies returns one page of raw records matching the text query.
	// page is zero-based. A non-success response yields *RemoteAPIError.
	GetVacancies(ctx context.Context, query string, page int) ([]Record, error)
}

// Storage persists a collection of vacancies.
//
// Every operation reads and rewrites the whole collection. Implementations
// do not lock; callers sharing a backing store must serialize access.
// Failures of the backing medium yield *StorageUnavailableError.
type Storage interface {
	// AddVacancies replaces the stored collection with vacancies.
	// It does not append: a second call discards the first batch.
	AddVacancies(ctx context.Context, vacancies []Vacancy) error

	// GetVacancies returns the stored vacancies whose key field equals value,
	// in stored order. No match yields an empty slice.
	GetVacancies(ctx context.Context, key, value string) ([]Vacancy, error)

	// DeleteVacancies removes every stored vacancy whose key field equals value.
	DeleteVacancies(ctx context.Context, key, value string) error
}
