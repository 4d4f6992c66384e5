package article

import (
	"errors"
	"net/http"

	"blog-admin/internal/handler/http/pathutil"
	"blog-admin/internal/handler/http/respond"
	artUC "blog-admin/internal/usecase/article"
)

type GetHandler struct{ Svc *artUC.Service }

// ServeHTTP serves GET /articles/{id}.
//
// @Summary      Get article
// @Description  Returns one article with its author's username
// @Tags         articles
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200 {object} DTO "Article"
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Server error"
// @Router       /articles/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := h.Svc.GetWithAuthor(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, artUC.ErrInvalidArticleID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, artUC.ErrArticleNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(*item))
}
