package mealdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pders01/mymeals/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.TestConfig()
	cfg.API.BaseURL = server.URL + "/api/json/v1/1/"
	return NewClient(cfg)
}

func TestClientListByFirstLetter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/search.php", r.URL.Path)
		assert.Equal(t, "a", r.URL.Query().Get("f"))
		assert.Equal(t, "mymeals-test/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(samplePayload))
	})

	meals, err := client.ListByFirstLetter(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "52772", meals[0].ID)
}

func TestClientSearchEncodesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chicken & rice", r.URL.Query().Get("s"))
		w.Write([]byte(`{"meals": null}`))
	})

	meals, err := client.Search(context.Background(), "chicken & rice")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestClientLookup(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expectID string
	}{
		{"found", samplePayload, "52772"},
		{"not found", `{"meals": null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/json/v1/1/lookup.php", r.URL.Path)
				assert.Equal(t, "52772", r.URL.Query().Get("i"))
				w.Write([]byte(tt.body))
			})

			meal, err := client.Lookup(context.Background(), "52772")
			require.NoError(t, err)
			if tt.expectID == "" {
				assert.Nil(t, meal)
				return
			}
			require.NotNil(t, meal)
			assert.Equal(t, tt.expectID, meal.ID)
		})
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meals": [`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Search(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetch))
			assert.False(t, IsCancelled(err))
		})
	}
}

func TestClientTransportError(t *testing.T) {
	cfg := config.TestConfig()
	cfg.API.BaseURL = "http://127.0.0.1:1"
	client := NewClient(cfg)

	_, err := client.ListByFirstLetter(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestClientCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Search(ctx, "slow")
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.False(t, errors.Is(err, ErrFetch))
}
