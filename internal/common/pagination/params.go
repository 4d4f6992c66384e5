// Package pagination provides page/limit parsing and metadata for list endpoints.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	envconfig "blog-admin/pkg/config"
)

// ErrPageOutOfRange is returned when the row offset of a page would overflow.
var ErrPageOutOfRange = errors.New("page is too large")

// Params holds validated pagination parameters.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// Config bounds pagination parameters.
type Config struct {
	DefaultPage  int `yaml:"default_page"`
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// DefaultConfig returns page 1, 20 items per page and at most 100 items per page.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv overlays PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT on base.
func LoadFromEnv(base Config) Config {
	return Config{
		DefaultPage:  envconfig.GetEnvInt("PAGINATION_DEFAULT_PAGE", base.DefaultPage),
		DefaultLimit: envconfig.GetEnvInt("PAGINATION_DEFAULT_LIMIT", base.DefaultLimit),
		MaxLimit:     envconfig.GetEnvInt("PAGINATION_MAX_LIMIT", base.MaxLimit),
	}
}

// Validate checks that the configuration is self-consistent.
func (c Config) Validate() error {
	if c.DefaultPage < 1 {
		return fmt.Errorf("pagination: default page must be positive")
	}
	if c.MaxLimit < 1 {
		return fmt.Errorf("pagination: max limit must be positive")
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("pagination: default limit must be between 1 and %d", c.MaxLimit)
	}
	return nil
}

// ParseQueryParams reads "page" and "limit" from the query string.
// Missing values take the configured defaults.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:  config.DefaultPage,
		Limit: config.DefaultLimit,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", config.MaxLimit)
		}
		params.Limit = limit
	}

	if maxPage := MaxPage(params.Limit); params.Page > maxPage {
		return params, fmt.Errorf("invalid query parameter: %w: must be at most %d", ErrPageOutOfRange, maxPage)
	}

	return params, nil
}

// MaxPage returns the largest page whose row offset fits in an int.
func MaxPage(limit int) int {
	if limit <= 1 {
		return math.MaxInt
	}
	return math.MaxInt/limit + 1
}

// WithDefaults fills zero fields from config and caps Limit at MaxLimit.
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	return p
}
