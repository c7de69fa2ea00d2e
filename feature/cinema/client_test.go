package cinema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-sync/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moviesJSON = `[
	{"id": "123", "title": "Coupez !", "description": "Ca tourne mal", "duration": 120, "visa": "123456", "poster_url": "/posters/coupez.png", "updated_at": "2024-06-01T08:00:00Z"},
	{"id": 51, "title": "Top Gun", "description": "Film sur les avions", "duration": "150", "visa": 333333, "poster_url": ""}
]`

const showsJSON = `[
	{"id": 1, "movie_id": "123", "showtime": "2024-06-20T11:00:00Z", "price": 5, "remaining_seats": 77, "updated_at": "2024-06-01T08:00:00Z"},
	{"id": 2, "movie_id": 123, "showtime": "2024-06-21T18:30:00Z", "price": "6.90", "remaining_seats": "12", "updated_at": "2024-06-01T08:00:00Z"},
	{"id": 3, "movie_id": "123", "showtime": "2024-06-22T18:30:00Z", "price": 6, "remaining_seats": 40, "is_cancelled": true},
	{"id": 4, "movie_id": "123", "showtime": "2024-06-23T18:30:00Z", "price": 6, "remaining_seats": 40, "is_deleted": true}
]`

func newListingsServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/cinemas/cine-9/movies", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(moviesJSON))
	}))
	mux.HandleFunc("/cinemas/cine-9/shows", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(showsJSON))
	}))
	mux.HandleFunc("/posters/coupez.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("poster-bytes"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Movies(t *testing.T) {
	server := newListingsServer(t, "secret")
	client := NewClient(Config{BaseURL: server.URL + "/", Token: "secret", TimeoutSeconds: 5})

	movies, err := client.Movies(context.Background(), "cine-9")
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "123", utils.ToString(movies[0].ID))
	assert.Equal(t, "51", utils.ToString(movies[1].ID))
	assert.Equal(t, 150, utils.ToInt(movies[1].Duration))
	assert.True(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC).Equal(movies[0].UpdatedAt))
	assert.True(t, movies[1].UpdatedAt.IsZero())
}

func TestClient_Shows(t *testing.T) {
	server := newListingsServer(t, "")
	client := NewClient(Config{BaseURL: server.URL})

	shows, err := client.Shows(context.Background(), "cine-9")
	require.NoError(t, err)
	require.Len(t, shows, 4)
	assert.True(t, shows[2].IsCancelled)
	assert.True(t, shows[3].IsDeleted)
	assert.Equal(t, "6.90", utils.ToString(shows[1].Price))
}

func TestClient_Errors(t *testing.T) {
	server := newListingsServer(t, "secret")

	t.Run("Unauthorized", func(t *testing.T) {
		client := NewClient(Config{BaseURL: server.URL, Token: "wrong"})
		_, err := client.Movies(context.Background(), "cine-9")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.ErrorContains(t, err, "401")
	})

	t.Run("Unknown Cinema", func(t *testing.T) {
		client := NewClient(Config{BaseURL: server.URL, Token: "secret"})
		_, err := client.Shows(context.Background(), "nowhere")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1})
		_, err := client.Movies(context.Background(), "cine-9")
		assert.Error(t, err)
	})
}

func TestClient_Poster(t *testing.T) {
	server := newListingsServer(t, "")
	client := NewClient(Config{BaseURL: server.URL})

	data, err := client.Poster(context.Background(), "/posters/coupez.png")
	require.NoError(t, err)
	assert.Equal(t, "poster-bytes", string(data))

	data, err = client.Poster(context.Background(), server.URL+"/posters/coupez.png")
	require.NoError(t, err)
	assert.Equal(t, "poster-bytes", string(data))

	_, err = client.Poster(context.Background(), "/posters/missing.png")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
