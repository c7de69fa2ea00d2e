package cinema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnexpectedStatus is returned for non-2xx listings responses.
var ErrUnexpectedStatus = errors.New("unexpected status from listings api")

const maxPosterBytes = 10 << 20

// Movie is a film on a cinema's program. Numeric fields are loosely typed
// upstream and normalized by the adapter.
type Movie struct {
	ID          any       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    any       `json:"duration"`
	Visa        any       `json:"visa"`
	PosterURL   string    `json:"poster_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Show is one screening of a movie.
type Show struct {
	ID             any       `json:"id"`
	MovieID        any       `json:"movie_id"`
	Showtime       time.Time `json:"showtime"`
	Price          any       `json:"price"`
	RemainingSeats any       `json:"remaining_seats"`
	IsCancelled    bool      `json:"is_cancelled"`
	IsDeleted      bool      `json:"is_deleted"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Source is the listings API as the adapter sees it.
type Source interface {
	Movies(ctx context.Context, cinemaID string) ([]Movie, error)
	Shows(ctx context.Context, cinemaID string) ([]Show, error)
	Poster(ctx context.Context, posterURL string) ([]byte, error)
}

// Client talks to the cinema listings API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a listings client from cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Transport: transport, Timeout: timeoutDuration},
	}
}

// Movies lists the program of cinemaID.
func (c *Client) Movies(ctx context.Context, cinemaID string) ([]Movie, error) {
	var movies []Movie
	if err := c.getJSON(ctx, "/cinemas/"+url.PathEscape(cinemaID)+"/movies", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Shows lists the screenings of cinemaID.
func (c *Client) Shows(ctx context.Context, cinemaID string) ([]Show, error) {
	var shows []Show
	if err := c.getJSON(ctx, "/cinemas/"+url.PathEscape(cinemaID)+"/shows", &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// Poster downloads a poster. Relative urls resolve against the base url.
func (c *Client) Poster(ctx context.Context, posterURL string) ([]byte, error) {
	if !strings.HasPrefix(posterURL, "http://") && !strings.HasPrefix(posterURL, "https://") {
		posterURL = c.baseURL + "/" + strings.TrimLeft(posterURL, "/")
	}
	resp, err := c.do(ctx, posterURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// One byte over the limit lets the thumbnail step report the oversize.
	return io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes+1))
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, req.URL.Path, resp.StatusCode)
	}
	return resp, nil
}
