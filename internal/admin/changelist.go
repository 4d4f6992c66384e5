package admin

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/observability/metrics"
	"blog-admin/internal/pkg/search"
)

// Date filter choice values.
const (
	DateAny       = "any"
	DateToday     = "today"
	DatePast7Days = "past_7_days"
	DateThisMonth = "this_month"
	DateThisYear  = "this_year"
)

const (
	dateLayout     = "2006-01-02"
	fkChoiceAll    = ""
	fkChoiceAllLbl = "All"
)

var dateChoices = []Choice{
	{Value: DateAny, Label: "Any date"},
	{Value: DateToday, Label: "Today"},
	{Value: DatePast7Days, Label: "Past 7 days"},
	{Value: DateThisMonth, Label: "This month"},
	{Value: DateThisYear, Label: "This year"},
}

// ChangeListRequest carries the user's list view selections.
type ChangeListRequest struct {
	Query    string            // raw search input
	Filters  map[string]string // filter field name -> selected choice value
	Ordering string            // comma separated override, e.g. "-title,author"
	Params   pagination.Params
	// Config bounds the page size; the zero value means pagination.DefaultConfig.
	// A model's list_per_page takes priority over Config.DefaultLimit.
	Config pagination.Config
	Now    time.Time
}

// Column is one list view column.
type Column struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	// Sorted is "asc" or "desc" when the column takes part in the ordering.
	Sorted string `json:"sorted,omitempty"`
}

// Row is one object in the list, with cells in column order.
type Row struct {
	ID    int64    `json:"id"`
	Cells []string `json:"cells"`
}

// FilterFacet is one sidebar filter with its choices.
type FilterFacet struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Selected string   `json:"selected"`
	Choices  []Choice `json:"choices"`
}

// ChangeList is the rendered list view of a model.
type ChangeList struct {
	Model        string              `json:"model"`
	Columns      []Column            `json:"columns"`
	Rows         []Row               `json:"rows"`
	Filters      []FilterFacet       `json:"filters"`
	SearchFields []string            `json:"search_fields"`
	Query        string              `json:"query"`
	Ordering     []string            `json:"ordering"`
	Pagination   pagination.Metadata `json:"pagination"`
}

// DateRange maps a date filter choice onto an inclusive range of dates
// relative to now. DateAny and "" yield nil bounds.
func DateRange(choice string, now time.Time) (from, to *time.Time, err error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var start, end time.Time
	switch choice {
	case "", DateAny:
		return nil, nil, nil
	case DateToday:
		start, end = today, today
	case DatePast7Days:
		start, end = today.AddDate(0, 0, -7), today
	case DateThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case DateThisYear:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return nil, nil, fmt.Errorf("%w: unknown date choice %q", ErrInvalidFilter, choice)
	}
	return &start, &end, nil
}

// resolveOrdering applies the request override restricted to sortable list
// columns. Without a usable override the configured ordering is used.
func resolveOrdering(reg *Registration, override string) []OrderKey {
	var keys []OrderKey
	for _, key := range ParseOrdering(strings.Split(override, ",")) {
		f, ok := reg.Schema.Field(key.Field)
		if !ok || !f.Sortable || !slices.Contains(reg.Admin.ListDisplay, key.Field) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) > 0 {
		return keys
	}
	return ParseOrdering(reg.Admin.Ordering)
}

func buildFilters(ctx context.Context, reg *Registration, req ChangeListRequest) ([]Filter, []FilterFacet, error) {
	var (
		filters []Filter
		facets  []FilterFacet
	)
	for _, name := range reg.Admin.ListFilter {
		f, _ := reg.Schema.Field(name)
		selected := strings.TrimSpace(req.Filters[name])
		facet := FilterFacet{Field: name, Label: f.label(), Selected: selected}

		switch f.Kind {
		case KindDate:
			from, to, err := DateRange(selected, req.Now)
			if err != nil {
				return nil, nil, err
			}
			if from != nil {
				filters = append(filters, Filter{Field: name, From: from, To: to})
			} else {
				facet.Selected = DateAny
			}
			facet.Choices = dateChoices
		case KindForeignKey:
			if selected != fkChoiceAll {
				id, err := strconv.ParseInt(selected, 10, 64)
				if err != nil || id <= 0 {
					return nil, nil, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidFilter, name)
				}
				filters = append(filters, Filter{Field: name, Ref: &id})
			}
			choices, err := reg.Backend.FilterChoices(ctx, name)
			if err != nil {
				return nil, nil, fmt.Errorf("filter choices for %s: %w", name, err)
			}
			facet.Choices = append([]Choice{{Value: fkChoiceAll, Label: fkChoiceAllLbl}}, choices...)
		}
		facets = append(facets, facet)
	}
	return filters, facets, nil
}

// BuildChangeList runs a list view query against the model's backend.
func BuildChangeList(ctx context.Context, reg *Registration, req ChangeListRequest) (*ChangeList, error) {
	keywords, err := search.ParseKeywords(req.Query, search.DefaultMaxKeywordCount, search.DefaultMaxKeywordLength)
	if err != nil {
		return nil, err
	}
	if len(reg.Admin.SearchFields) == 0 {
		keywords = nil
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	filters, facets, err := buildFilters(ctx, reg, req)
	if err != nil {
		return nil, err
	}
	ordering := resolveOrdering(reg, req.Ordering)

	params := req.Params
	if params.Limit <= 0 && reg.Admin.ListPerPage > 0 {
		params.Limit = reg.Admin.ListPerPage
	}
	cfg := req.Config
	if cfg.MaxLimit <= 0 {
		cfg = pagination.DefaultConfig()
	}
	params = params.WithDefaults(cfg)
	if maxPage := pagination.MaxPage(params.Limit); params.Page > maxPage {
		return nil, fmt.Errorf("%w: must be at most %d", pagination.ErrPageOutOfRange, maxPage)
	}

	records, total, err := reg.Backend.List(ctx, ListQuery{
		Keywords: keywords,
		Filters:  filters,
		Ordering: ordering,
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", reg.Schema.Plural, err)
	}

	cl := &ChangeList{
		Model:        reg.Name(),
		Columns:      make([]Column, 0, len(reg.Admin.ListDisplay)),
		Rows:         make([]Row, 0, len(records)),
		Filters:      facets,
		SearchFields: reg.Admin.SearchFields,
		Query:        strings.Join(keywords, " "),
		Pagination:   pagination.NewMetadata(params, total),
	}
	if cl.Filters == nil {
		cl.Filters = []FilterFacet{}
	}
	if cl.SearchFields == nil {
		cl.SearchFields = []string{}
	}
	cl.Ordering = make([]string, len(ordering))
	for i, key := range ordering {
		cl.Ordering[i] = key.String()
	}

	for _, name := range reg.Admin.ListDisplay {
		f, _ := reg.Schema.Field(name)
		col := Column{Field: name, Label: f.label(), Sortable: f.Sortable}
		for _, key := range ordering {
			if key.Field == name {
				col.Sorted = "asc"
				if key.Desc {
					col.Sorted = "desc"
				}
				break
			}
		}
		cl.Columns = append(cl.Columns, col)
	}
	for _, rec := range records {
		row := Row{ID: rec.ID, Cells: make([]string, len(reg.Admin.ListDisplay))}
		for i, name := range reg.Admin.ListDisplay {
			row.Cells[i] = DisplayValue(rec, name)
		}
		cl.Rows = append(cl.Rows, row)
	}
	metrics.RecordAdminAction(reg.Name(), "list")
	return cl, nil
}

// DisplayValue renders a record field as text.
func DisplayValue(rec Record, field string) string {
	if label, ok := rec.Display[field]; ok {
		return label
	}
	switch v := rec.Values[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(dateLayout)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
