package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

// Compile-time check that DocumentStorage implements vacancy.Storage.
var _ vacancy.Storage = (*DocumentStorage)(nil)

// DocumentStorage keeps the whole vacancy collection in one serialized
// document on a Backend.
//
// Every operation is a full read-modify-write of the document with no
// locking. Two callers sharing a backend can race and lose updates; callers
// must serialize access themselves.
type DocumentStorage struct {
	backend      Backend
	codec        Codec
	checkRecords bool
}

// DocumentOption configures a DocumentStorage.
type DocumentOption func(*DocumentStorage)

// WithRecordValidation enables or disables checking every loaded record with
// vacancy.ValidateRecord. A record breaking the type contract fails the
// operation with a *vacancy.ValidationError. Enabled by default.
func WithRecordValidation(enabled bool) DocumentOption {
	return func(s *DocumentStorage) {
		s.checkRecords = enabled
	}
}

// NewDocumentStorage creates a DocumentStorage. A nil codec selects JSON.
func NewDocumentStorage(backend Backend, codec Codec, opts ...DocumentOption) *DocumentStorage {
	if codec == nil {
		codec = JSONCodec{}
	}
	s := &DocumentStorage{backend: backend, codec: codec, checkRecords: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location describes the backing document.
func (s *DocumentStorage) Location() string {
	return s.backend.Location()
}

// AddVacancies replaces the stored collection with vacancies.
// Previously stored vacancies are discarded, not appended to.
func (s *DocumentStorage) AddVacancies(ctx context.Context, vacancies []vacancy.Vacancy) error {
	recs := make([]vacancy.Record, 0, len(vacancies))
	for _, v := range vacancies {
		recs = append(recs, v.Record())
	}
	return s.save(ctx, recs)
}

// GetVacancies returns the stored vacancies whose key field equals value.
//
// String fields compare by exact string equality. Numeric fields compare
// their decimal text with value, so salary "1000" matches but "max" never
// does. A record without the field never matches.
func (s *DocumentStorage) GetVacancies(ctx context.Context, key, value string) ([]vacancy.Vacancy, error) {
	if !vacancy.IsField(key) {
		return nil, fmt.Errorf("%w: %q", vacancy.ErrUnknownField, key)
	}

	recs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]vacancy.Vacancy, 0)
	for _, rec := range recs {
		if fieldEquals(rec, key, value) {
			out = append(out, vacancy.FromRecord(rec))
		}
	}
	return out, nil
}

// DeleteVacancies removes every stored vacancy whose key field equals value
// and writes the remaining records back in their original order.
func (s *DocumentStorage) DeleteVacancies(ctx context.Context, key, value string) error {
	if !vacancy.IsField(key) {
		return fmt.Errorf("%w: %q", vacancy.ErrUnknownField, key)
	}

	recs, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]vacancy.Record, 0, len(recs))
	for _, rec := range recs {
		if !fieldEquals(rec, key, value) {
			kept = append(kept, rec)
		}
	}
	return s.save(ctx, kept)
}

// Count returns the number of stored records.
func (s *DocumentStorage) Count(ctx context.Context) (int, error) {
	recs, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *DocumentStorage) load(ctx context.Context) ([]vacancy.Record, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		return nil, &vacancy.StorageUnavailableError{Op: "read " + s.backend.Location(), Err: err}
	}
	recs, err := s.codec.Decode(data)
	if err != nil {
		return nil, &vacancy.StorageUnavailableError{Op: "parse " + s.backend.Location(), Err: err}
	}
	if s.checkRecords {
		for i, rec := range recs {
			if err := vacancy.ValidateRecord(rec); err != nil {
				return nil, fmt.Errorf("stored record %d: %w", i, err)
			}
		}
	}
	return recs, nil
}

func (s *DocumentStorage) save(ctx context.Context, recs []vacancy.Record) error {
	data, err := s.codec.Encode(recs)
	if err != nil {
		return &vacancy.StorageUnavailableError{Op: "encode " + s.backend.Location(), Err: err}
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return &vacancy.StorageUnavailableError{Op: "write " + s.backend.Location(), Err: err}
	}
	return nil
}

// IsNotFound reports whether err was caused by a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

// fieldEquals compares the raw stored value of key with value.
func fieldEquals(rec vacancy.Record, key, value string) bool {
	switch raw := rec[key].(type) {
	case string:
		return raw == value
	case json.Number:
		return raw.String() == value
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64) == value
	case int:
		return strconv.Itoa(raw) == value
	case int64:
		return strconv.FormatInt(raw, 10) == value
	case uint64:
		return strconv.FormatUint(raw, 10) == value
	default:
		return false
	}
}
