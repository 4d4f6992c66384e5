package article

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blog-admin/internal/repository"
)

// parseFilters reads the optional author_id, from and to query parameters.
// Dates are inclusive calendar days in YYYY-MM-DD form.
func parseFilters(r *http.Request) (repository.ArticleFilters, error) {
	var f repository.ArticleFilters
	q := r.URL.Query()

	if s := q.Get("author_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return f, errors.New("invalid author_id: must be a positive integer")
		}
		f.AuthorID = &id
	}
	if s := q.Get("from"); s != "" {
		from, err := time.Parse(DateLayout, s)
		if err != nil {
			return f, fmt.Errorf("invalid from date: must be YYYY-MM-DD")
		}
		f.CreatedFrom = &from
	}
	if s := q.Get("to"); s != "" {
		to, err := time.Parse(DateLayout, s)
		if err != nil {
			return f, fmt.Errorf("invalid to date: must be YYYY-MM-DD")
		}
		f.CreatedTo = &to
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return f, errors.New("invalid date range: from must be on or before to")
	}
	return f, nil
}
