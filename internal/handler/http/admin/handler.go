// Package admin exposes the admin site over HTTP as a JSON API:
// the model index, change lists, add and change forms, and deletion.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	admincore "blog-admin/internal/admin"
	"blog-admin/internal/common/pagination"
	"blog-admin/internal/handler/http/auth"
	"blog-admin/internal/handler/http/pathutil"
	"blog-admin/internal/handler/http/respond"
	"blog-admin/internal/observability/logging"
	"blog-admin/internal/pkg/search"
)

// Handler serves the admin routes for every model registered on Site.
type Handler struct {
	Site          *admincore.Site
	PaginationCfg pagination.Config
	// Now returns the current time for date filters; nil means time.Now.
	Now func() time.Time
}

// Register mounts the admin routes on mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /admin/{$}", h.Index)
	mux.HandleFunc("GET /admin/{model}/{$}", h.ChangeList)
	mux.HandleFunc("GET /admin/{model}/add/{$}", h.AddForm)
	mux.HandleFunc("POST /admin/{model}/add/{$}", h.Add)
	mux.HandleFunc("GET /admin/{model}/{id}/change/{$}", h.ChangeForm)
	mux.HandleFunc("POST /admin/{model}/{id}/change/{$}", h.Change)
	mux.HandleFunc("POST /admin/{model}/{id}/delete/{$}", h.Delete)
}

// ModelEntry is one model on the admin index.
type ModelEntry struct {
	Name      string `json:"name"`
	Plural    string `json:"plural"`
	ListURL   string `json:"list_url"`
	AddURL    string `json:"add_url"`
	CanSearch bool   `json:"can_search"`
}

// Object is a saved record as returned by add and change.
type Object struct {
	Model   string            `json:"model"`
	ID      int64             `json:"id"`
	Fields  map[string]any    `json:"fields"`
	Display map[string]string `json:"display,omitempty"`
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*admincore.Registration, bool) {
	name := r.PathValue("model")
	reg, ok := h.Site.Lookup(name)
	if !ok {
		respond.Error(w, http.StatusNotFound, fmt.Errorf("%w: %s", admincore.ErrModelNotFound, name))
		return nil, false
	}
	return reg, true
}

func objectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}

// Index serves GET /admin/.
//
// @Summary      List admin models
// @Description  Returns every registered model with its list and add URLs
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} map[string][]ModelEntry "Registered models"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Router       /admin/ [get]
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	models := h.Site.Models()
	out := make([]ModelEntry, 0, len(models))
	for _, reg := range models {
		out = append(out, ModelEntry{
			Name:      reg.Name(),
			Plural:    reg.Schema.Plural,
			ListURL:   "/admin/" + reg.Name() + "/",
			AddURL:    "/admin/" + reg.Name() + "/add/",
			CanSearch: len(reg.Admin.SearchFields) > 0,
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"models": out})
}

// ChangeList serves GET /admin/{model}/?q=&o=&page=&limit=&<filter>=.
//
// @Summary      Admin change list
// @Description  Lists objects with the model's columns, search, filters and ordering
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        model  path   string  true   "Model name, e.g. article"
// @Param        q      query  string  false  "Search keywords"
// @Param        o      query  string  false  "Ordering override, e.g. -title,author"
// @Param        page   query  int     false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query  int     false  "Items per page"
// @Success      200 {object} admincore.ChangeList "Change list"
// @Failure      400 {string} string "Invalid query parameters or filter value"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      404 {string} string "Not found - unknown model"
// @Router       /admin/{model}/ [get]
func (h *Handler) ChangeList(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}

	// A missing limit falls back to the model's list_per_page.
	cfg := h.PaginationCfg
	cfg.DefaultLimit = 0
	params, err := pagination.ParseQueryParams(r, cfg)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	filters := make(map[string]string, len(reg.Admin.ListFilter))
	for _, name := range reg.Admin.ListFilter {
		if v := q.Get(name); v != "" {
			filters[name] = v
		}
	}

	cl, err := admincore.BuildChangeList(r.Context(), reg, admincore.ChangeListRequest{
		Query:    q.Get("q"),
		Filters:  filters,
		Ordering: q.Get("o"),
		Params:   params,
		Config:   h.PaginationCfg,
		Now:      h.now(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, cl)
}

// AddForm serves GET /admin/{model}/add/.
//
// @Summary      Admin add form
// @Description  Returns the add fieldsets with field metadata and choices
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        model path string true "Model name"
// @Success      200 {object} admincore.Form "Add form"
// @Failure      404 {string} string "Not found - unknown model"
// @Router       /admin/{model}/add/ [get]
func (h *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	form, err := admincore.AddForm(r.Context(), reg)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, form)
}

// Add serves POST /admin/{model}/add/.
//
// @Summary      Admin create object
// @Description  Creates an object from the add fieldsets; accepts JSON or form-encoded bodies
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        model path string true "Model name"
// @Success      201 {object} Object "Created object" headers(Location=string)
// @Failure      400 {object} map[string]admincore.FieldErrors "Validation errors"
// @Failure      403 {string} string "Forbidden - insufficient permissions"
// @Failure      404 {string} string "Not found - unknown model"
// @Router       /admin/{model}/add/ [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	rec, err := admincore.Add(r.Context(), reg, values)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.audit(r, reg, "add", rec.ID)
	w.Header().Set("Location", fmt.Sprintf("/admin/%s/%d/change/", reg.Name(), rec.ID))
	respond.JSON(w, http.StatusCreated, toObject(reg, rec))
}

// ChangeForm serves GET /admin/{model}/{id}/change/.
//
// @Summary      Admin change form
// @Description  Returns the edit fieldsets filled with the object's current values
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        model  path  string  true  "Model name"
// @Param        id     path  int     true  "Object ID"
// @Success      200 {object} admincore.Form "Change form"
// @Failure      400 {string} string "Bad request - invalid ID"
// @Failure      404 {string} string "Not found - unknown model or object"
// @Router       /admin/{model}/{id}/change/ [get]
func (h *Handler) ChangeForm(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	rec, err := reg.Backend.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form, err := admincore.ChangeForm(r.Context(), reg, rec)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, form)
}

// Change serves POST /admin/{model}/{id}/change/.
// Fields absent from the body are left unchanged; read-only fields are ignored.
//
// @Summary      Admin update object
// @Description  Applies a partial update; read-only fields in the body are ignored
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        model  path  string  true  "Model name"
// @Param        id     path  int     true  "Object ID"
// @Success      200 {object} Object "Updated object"
// @Failure      400 {object} map[string]admincore.FieldErrors "Validation errors"
// @Failure      403 {string} string "Forbidden - insufficient permissions"
// @Failure      404 {string} string "Not found - unknown model or object"
// @Router       /admin/{model}/{id}/change/ [post]
func (h *Handler) Change(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	rec, err := admincore.Change(r.Context(), reg, id, values)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.audit(r, reg, "change", rec.ID)
	respond.JSON(w, http.StatusOK, toObject(reg, rec))
}

// Delete serves POST /admin/{model}/{id}/delete/.
//
// @Summary      Admin delete object
// @Description  Deletes the object; deleting a user also deletes its articles
// @Tags         admin
// @Security     BearerAuth
// @Param        model  path  string  true  "Model name"
// @Param        id     path  int     true  "Object ID"
// @Success      204 "No content"
// @Failure      403 {string} string "Forbidden - insufficient permissions"
// @Failure      404 {string} string "Not found - unknown model or object"
// @Router       /admin/{model}/{id}/delete/ [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	if err := admincore.Remove(r.Context(), reg, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.audit(r, reg, "delete", id)
	respond.NoContent(w)
}

// fail maps admin errors to responses. Field errors are returned as
// {"errors": {"field": ["message", ...]}}.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := admincore.AsFieldErrors(err); ok {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"errors": fe})
		return
	}
	switch {
	case errors.Is(err, admincore.ErrObjectNotFound), errors.Is(err, admincore.ErrModelNotFound):
		respond.Error(w, http.StatusNotFound, err)
	case errors.Is(err, admincore.ErrInvalidFilter),
		errors.Is(err, pagination.ErrPageOutOfRange),
		errors.Is(err, search.ErrTooManyKeywords),
		errors.Is(err, search.ErrKeywordTooLong):
		respond.Error(w, http.StatusBadRequest, err)
	default:
		logging.FromContext(r.Context()).Error("admin request failed",
			slog.String("model", r.PathValue("model")),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) audit(r *http.Request, reg *admincore.Registration, action string, id int64) {
	subject := "anonymous"
	if p, ok := auth.FromContext(r.Context()); ok {
		subject = p.Subject
	}
	logging.FromContext(r.Context()).Info("admin action",
		slog.String("model", reg.Name()),
		slog.String("action", action),
		slog.Int64("object_id", id),
		slog.String("user", subject))
}

// decodeValues reads a JSON object, or a urlencoded form, into field values.
// JSON numbers are kept as json.Number.
func decodeValues(r *http.Request) (map[string]any, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		values := make(map[string]any, len(r.PostForm))
		for k := range r.PostForm {
			values[k] = r.PostForm.Get(k)
		}
		return values, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("invalid request body: expected a JSON object")
		}
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if values == nil {
		return nil, errors.New("invalid request body: expected a JSON object")
	}
	return values, nil
}

func toObject(reg *admincore.Registration, rec *admincore.Record) Object {
	fields := make(map[string]any, len(reg.Schema.Fields))
	for _, f := range reg.Schema.Fields {
		v, ok := rec.Values[f.Name]
		if !ok {
			continue
		}
		if t, isTime := v.(time.Time); isTime {
			v = t.Format("2006-01-02")
		}
		fields[f.Name] = v
	}
	return Object{Model: reg.Name(), ID: rec.ID, Fields: fields, Display: rec.Display}
}
