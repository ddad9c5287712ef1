package assistant

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maauso/vacancy-assistant/internal/hh"
	"github.com/maauso/vacancy-assistant/internal/storage"
	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

// mockSource implements vacancy.Source for testing.
type mockSource struct {
	mock.Mock
}

func (m *mockSource) GetVacancies(ctx context.Context, query string, page int) ([]vacancy.Record, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vacancy.Record), args.Error(1)
}

// mockStorage implements vacancy.Storage for testing.
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) AddVacancies(ctx context.Context, vs []vacancy.Vacancy) error {
	args := m.Called(ctx, vs)
	return args.Error(0)
}

func (m *mockStorage) GetVacancies(ctx context.Context, key, value string) ([]vacancy.Vacancy, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vacancy.Vacancy), args.Error(1)
}

func (m *mockStorage) DeleteVacancies(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewService(t *testing.T) {
	src := &mockSource{}
	store := &mockStorage{}

	svc := NewService(src, store, nil)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
	assert.True(t, svc.validate)

	svc = NewService(src, store, testLogger(), WithValidation(false))
	assert.False(t, svc.validate)
}

func TestService_Search_StoresConvertedVacancies(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}

	src.On("GetVacancies", ctx, "golang", 0).Return([]vacancy.Record{
		{"name": "Go dev", "alternate_url": "u1", "salary": map[string]any{"from": 1000.0}},
		{"title": "Ops", "url": "u2", "salary": nil, "description": "linux"},
	}, nil)
	store.On("AddVacancies", ctx, []vacancy.Vacancy{
		{Title: "Go dev", URL: "u1", Salary: 1000},
		{Title: "Ops", URL: "u2", Salary: 0, Description: "linux"},
	}).Return(nil)

	svc := NewService(src, store, testLogger())
	res, err := svc.Search(ctx, "golang", 0)
	require.NoError(t, err)
	assert.Equal(t, &SearchResult{Query: "golang", Page: 0, Found: 2, Stored: 2}, res)

	src.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_Search_RemoteErrorPropagates(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}
	apiErr := &vacancy.RemoteAPIError{StatusCode: http.StatusForbidden}

	src.On("GetVacancies", ctx, "go", 1).Return(nil, apiErr)

	svc := NewService(src, store, testLogger())
	_, err := svc.Search(ctx, "go", 1)

	var got *vacancy.RemoteAPIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, http.StatusForbidden, got.StatusCode)
	store.AssertNotCalled(t, "AddVacancies", mock.Anything, mock.Anything)
}

func TestService_Search_ValidationFailureSkipsStore(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}

	src.On("GetVacancies", ctx, "go", 0).Return([]vacancy.Record{
		{"title": "bad\xff", "url": "u"},
	}, nil)

	svc := NewService(src, store, testLogger())
	_, err := svc.Search(ctx, "go", 0)

	assert.ErrorIs(t, err, vacancy.ErrValidation)
	store.AssertNotCalled(t, "AddVacancies", mock.Anything, mock.Anything)
}

func TestService_Search_RejectsWronglyTypedFields(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}

	src.On("GetVacancies", ctx, "go", 0).Return([]vacancy.Record{
		{"title": "Go dev", "url": "u1", "salary": 10.0},
		{"title": 123, "url": true, "salary": 5, "description": []any{"a"}},
	}, nil)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := NewService(src, store, logger)
	_, err := svc.Search(ctx, "go", 0)

	var verr *vacancy.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, vacancy.FieldTitle, verr.Field)
	assert.Contains(t, err.Error(), "vacancy 1")
	store.AssertNotCalled(t, "AddVacancies", mock.Anything, mock.Anything)

	assert.Contains(t, logs.String(), "fetched vacancy failed validation")
	assert.Contains(t, logs.String(), "index=1")
}

func TestService_Search_NonFiniteSalaryTextStoredAsZero(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}

	src.On("GetVacancies", ctx, "go", 0).Return([]vacancy.Record{
		{"title": "a", "salary": "NaN"},
		{"title": "b", "salary": map[string]any{"from": "Inf"}},
	}, nil)
	store.On("AddVacancies", ctx, []vacancy.Vacancy{{Title: "a"}, {Title: "b"}}).Return(nil)

	svc := NewService(src, store, testLogger())
	res, err := svc.Search(ctx, "go", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stored)
	store.AssertExpectations(t)
}

func TestService_Search_ValidationDisabled(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}

	src.On("GetVacancies", ctx, "go", 0).Return([]vacancy.Record{{"title": "bad\xff"}}, nil)
	store.On("AddVacancies", ctx, mock.Anything).Return(nil)

	svc := NewService(src, store, testLogger(), WithValidation(false))
	_, err := svc.Search(ctx, "go", 0)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_Search_StorageErrorPropagates(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{}
	store := &mockStorage{}
	storeErr := &vacancy.StorageUnavailableError{Op: "write", Err: errors.New("disk full")}

	src.On("GetVacancies", ctx, "go", 0).Return([]vacancy.Record{}, nil)
	store.On("AddVacancies", ctx, []vacancy.Vacancy{}).Return(storeErr)

	svc := NewService(src, store, testLogger())
	_, err := svc.Search(ctx, "go", 0)
	assert.ErrorIs(t, err, vacancy.ErrStorageUnavailable)
}

func TestService_TopBySalary_QueriesLiteralMax(t *testing.T) {
	ctx := context.Background()
	store := &mockStorage{}
	store.On("GetVacancies", ctx, vacancy.FieldSalary, "max").Return([]vacancy.Vacancy{
		{Title: "a", Salary: 100},
		{Title: "b", Salary: 300},
		{Title: "c", Salary: 200},
	}, nil)

	svc := NewService(&mockSource{}, store, testLogger())

	top, err := svc.TopBySalary(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Title)
	assert.Equal(t, "c", top[1].Title)

	all, err := svc.TopBySalary(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	store.AssertExpectations(t)
}

func TestService_TopBySalary_InvalidLimit(t *testing.T) {
	svc := NewService(&mockSource{}, &mockStorage{}, testLogger())

	_, err := svc.TopBySalary(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestService_ByKeywordAndDelete(t *testing.T) {
	ctx := context.Background()
	store := &mockStorage{}
	store.On("GetVacancies", ctx, vacancy.FieldDescription, "python").
		Return([]vacancy.Vacancy{{Title: "Eng"}}, nil)
	store.On("DeleteVacancies", ctx, vacancy.FieldURL, "u1").Return(nil)

	svc := NewService(&mockSource{}, store, testLogger())

	got, err := svc.ByKeyword(ctx, "python")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, svc.Delete(ctx, vacancy.FieldURL, "u1"))
	store.AssertExpectations(t)
}

// End to end: hh.ru response through conversion into a real document store.
func TestService_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[{"title":"Eng","url":"u1","salary":{"from":1000},"description":"python"}]}`))
	}))
	defer server.Close()

	client, err := hh.NewClient("secret", hh.WithBaseURL(server.URL))
	require.NoError(t, err)
	store := storage.NewDocumentStorage(storage.NewMemoryBackend(), storage.JSONCodec{})
	svc := NewService(client, store, testLogger())
	ctx := context.Background()

	res, err := svc.Search(ctx, "python", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stored)

	python, err := svc.ByKeyword(ctx, "python")
	require.NoError(t, err)
	require.Len(t, python, 1)
	assert.Equal(t, vacancy.Vacancy{Title: "Eng", URL: "u1", Salary: 1000, Description: "python"}, python[0])

	java, err := svc.ByKeyword(ctx, "java")
	require.NoError(t, err)
	assert.Empty(t, java)

	top, err := svc.TopBySalary(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, top, "salary is never stored as the string \"max\"")
}
