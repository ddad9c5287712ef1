package hh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

func TestNewClient_MissingAPIKey(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("key")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultUserAgent, client.userAgent)
	assert.Zero(t, client.perPage)
}

func TestGetVacancies_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "golang developer", r.URL.Query().Get("text"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"Eng","url":"u1","salary":{"from":1000},"description":"python"}],"found":1,"pages":1}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key",
		WithBaseURL(server.URL),
		WithUserAgent("test-agent"),
		WithPerPage(50),
	)
	require.NoError(t, err)

	items, err := client.GetVacancies(context.Background(), "golang developer", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Eng", items[0]["title"])

	v := vacancy.FromRecord(items[0])
	assert.Equal(t, 1000.0, v.Salary)
}

func TestGetVacancies_NoPerPageByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["per_page"]
		assert.False(t, present)
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client, _ := NewClient("k", WithBaseURL(server.URL))
	items, err := client.GetVacancies(context.Background(), "go", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetVacancies_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"forbidden", http.StatusForbidden},
		{"bad request", http.StatusBadRequest},
		{"server error", http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errors":[{"type":"oops"}]}`))
			}))
			defer server.Close()

			client, _ := NewClient("k", WithBaseURL(server.URL))
			_, err := client.GetVacancies(context.Background(), "go", 0)

			var apiErr *vacancy.RemoteAPIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Body, "oops")
			assert.Equal(t, int32(1), calls.Load(), "no retry expected")
		})
	}
}

func TestGetVacancies_MissingItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"found":0}`))
	}))
	defer server.Close()

	client, _ := NewClient("k", WithBaseURL(server.URL))
	_, err := client.GetVacancies(context.Background(), "go", 0)
	assert.ErrorIs(t, err, ErrMissingItems)
}

func TestGetVacancies_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, _ := NewClient("k", WithBaseURL(server.URL))
	_, err := client.GetVacancies(context.Background(), "go", 0)
	require.Error(t, err)
	var apiErr *vacancy.RemoteAPIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestGetVacancies_InvalidArguments(t *testing.T) {
	client, _ := NewClient("k", WithBaseURL("http://127.0.0.1:0"))

	_, err := client.GetVacancies(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = client.GetVacancies(context.Background(), "go", -1)
	assert.ErrorIs(t, err, ErrNegativePage)
}

func TestGetVacancies_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client, _ := NewClient("k", WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.GetVacancies(ctx, "go", 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
