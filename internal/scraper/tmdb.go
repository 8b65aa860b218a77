// Package scraper pulls movie metadata from a TMDB-compatible API and maps
// it into catalog records.
package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/logger"
)

const pageSize = 20

// Config configures the TMDB client.
type Config struct {
	BaseURL    string
	APIKey     string
	MovieCount int
	Workers    int
}

// Client fetches popular movies plus their credits.
type Client struct {
	http       *resty.Client
	apiKey     string
	movieCount int
	workers    int
	log        *logger.Logger
}

// New creates a scraper client.
func New(cfg *Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	http := resty.New()
	http.SetBaseURL(cfg.BaseURL)

	count := cfg.MovieCount
	if count <= 0 {
		count = 400
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Client{
		http:       http,
		apiKey:     cfg.APIKey,
		movieCount: count,
		workers:    workers,
		log:        log,
	}
}

type genreRef struct {
	Name string `json:"name"`
}

type popularMovie struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Overview   string     `json:"overview"`
	Genres     []genreRef `json:"genres"`
	GenreIDs   []int64    `json:"genre_ids"`
	VoteAvg    float64    `json:"vote_average"`
	Popularity float64    `json:"popularity"`
	PosterPath string     `json:"poster_path"`
}

type popularPage struct {
	Page       int            `json:"page"`
	Results    []popularMovie `json:"results"`
	TotalPages int            `json:"total_pages"`
}

type creditsResponse struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type genreList struct {
	Genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// FetchPopular returns up to the configured number of popular movies with
// credits resolved, in API page order. Credit lookups run on a bounded
// worker pool; a movie whose credits fail is kept without cast/director.
func (c *Client) FetchPopular(ctx context.Context) ([]domain.Movie, error) {
	genres, err := c.fetchGenres(ctx)
	if err != nil {
		return nil, err
	}

	var raw []popularMovie
	for page := 1; len(raw) < c.movieCount; page++ {
		var resp popularPage
		httpResp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"api_key": c.apiKey,
				"page":    strconv.Itoa(page),
			}).
			SetResult(&resp).
			Get("/movie/popular")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch popular movies page %d: %w", page, err)
		}
		if httpResp.StatusCode() != 200 {
			return nil, fmt.Errorf("popular movies API error: status %d", httpResp.StatusCode())
		}
		raw = append(raw, resp.Results...)
		if page >= resp.TotalPages || len(resp.Results) < pageSize {
			break
		}
	}
	if len(raw) > c.movieCount {
		raw = raw[:c.movieCount]
	}

	movies := make([]domain.Movie, len(raw))
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)
	for i := range raw {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			movies[i] = c.toMovie(ctx, raw[i], genres)
		}(i)
	}
	wg.Wait()

	return movies, nil
}

func (c *Client) fetchGenres(ctx context.Context) (map[int64]string, error) {
	var resp genreList
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&resp).
		Get("/genre/movie/list")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genre list: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		return nil, fmt.Errorf("genre list API error: status %d", httpResp.StatusCode())
	}
	genres := make(map[int64]string, len(resp.Genres))
	for _, g := range resp.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// toMovie maps one API result into a catalog record. Cast members and genre
// names are pipe-delimited, matching the catalog's list convention.
func (c *Client) toMovie(ctx context.Context, m popularMovie, genres map[int64]string) domain.Movie {
	id := strconv.FormatInt(m.ID, 10)
	if m.ID == 0 {
		id = uuid.New().String()
	}

	names := make([]string, 0, len(m.Genres)+len(m.GenreIDs))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	for _, gid := range m.GenreIDs {
		if name, ok := genres[gid]; ok {
			names = append(names, name)
		}
	}

	movie := domain.Movie{
		ID:          id,
		Title:       m.Title,
		Genres:      strings.Join(names, "|"),
		Description: m.Overview,
		Rating:      m.VoteAvg,
		Popularity:  m.Popularity,
		PosterPath:  m.PosterPath,
	}

	cast, director, err := c.fetchCredits(ctx, m.ID)
	if err != nil {
		c.log.WithError(err).WithField("title", m.Title).Warn("Failed to fetch credits")
		return movie
	}
	movie.Cast = cast
	movie.Director = director
	return movie
}

func (c *Client) fetchCredits(ctx context.Context, id int64) (cast, director string, err error) {
	var resp creditsResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&resp).
		Get(fmt.Sprintf("/movie/%d/credits", id))
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch credits for movie %d: %w", id, err)
	}
	if httpResp.StatusCode() != 200 {
		return "", "", fmt.Errorf("credits API error for movie %d: status %d", id, httpResp.StatusCode())
	}

	names := make([]string, 0, 5)
	for i, member := range resp.Cast {
		if i >= 5 {
			break
		}
		names = append(names, member.Name)
	}
	for _, member := range resp.Crew {
		if member.Job == "Director" {
			director = member.Name
			break
		}
	}
	return strings.Join(names, "|"), director, nil
}
