package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/internal/foro/service"
	"github.com/aussiebroadwan/foro/pkg/slogx"
)

const (
	msgThreadCreated  = "Hilo creado correctamente."
	msgCommentAdded   = "Comentario agregado."
	msgLoginToComment = "Debes estar logueado para comentar."
)

type commentForm struct {
	Body string
}

// ForumHandler serves the thread listing, thread pages and the page form
// paths for creating threads and comments.
type ForumHandler struct {
	ForumService *service.ForumService
}

func (h *ForumHandler) Index(w http.ResponseWriter, r *http.Request) {
	threads, err := h.ForumService.ListThreads(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list threads", "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, "index", pageData{Threads: threads})
}

func (h *ForumHandler) NewThreadForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "crear_hilo", pageData{Form: service.ThreadInput{}})
}

func (h *ForumHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	in := service.ThreadInput{
		Title: r.PostFormValue("titulo"),
		Body:  r.PostFormValue("contenido"),
	}

	_, err := h.ForumService.CreateThread(r.Context(), currentUser(r.Context()), in)
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		render(w, r, http.StatusOK, "crear_hilo", pageData{Form: in, Errors: verr.Fields})
		return
	case errors.Is(err, service.ErrAuthRequired):
		addFlash(w, r, FlashInfo, msgLoginRequired)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("failed to create thread", "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}

	addFlash(w, r, FlashSuccess, msgThreadCreated)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ForumHandler) Thread(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.loadThread(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, "hilo", pageData{Thread: detail, Form: commentForm{}})
}

// Comment handles the page form. Blank comments re-render the thread with an
// error; anonymous submitters are sent to the login page.
func (h *ForumHandler) Comment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	detail, ok := h.loadThread(w, r)
	if !ok {
		return
	}

	body := r.PostFormValue("contenido")
	if strings.TrimSpace(body) == "" {
		render(w, r, http.StatusOK, "hilo", pageData{
			Thread: detail,
			Form:   commentForm{Body: body},
			Errors: map[string]string{"contenido": service.MsgEmptyComment},
		})
		return
	}

	user := currentUser(ctx)
	if user == nil {
		addFlash(w, r, FlashWarning, msgLoginToComment)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err := h.ForumService.CreateComment(ctx, user, detail.ID, body)
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		renderError(w, r, http.StatusNotFound)
		return
	case errors.As(err, &verr):
		render(w, r, http.StatusOK, "hilo", pageData{
			Thread: detail,
			Form:   commentForm{Body: body},
			Errors: verr.Fields,
		})
		return
	case err != nil:
		slogx.FromContext(ctx).Error("failed to create comment", "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}

	addFlash(w, r, FlashSuccess, msgCommentAdded)
	http.Redirect(w, r, "/hilo/"+strconv.FormatInt(detail.ID, 10), http.StatusSeeOther)
}

// loadThread resolves {id}, writing a 404 page for malformed or unknown ids.
func (h *ForumHandler) loadThread(w http.ResponseWriter, r *http.Request) (domain.ThreadDetail, bool) {
	id, ok := threadID(r)
	if !ok {
		renderError(w, r, http.StatusNotFound)
		return domain.ThreadDetail{}, false
	}

	detail, err := h.ForumService.GetThread(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		renderError(w, r, http.StatusNotFound)
		return domain.ThreadDetail{}, false
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to load thread", "thread_id", id, "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return domain.ThreadDetail{}, false
	}
	return detail, true
}

func threadID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
