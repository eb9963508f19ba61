package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/foro/internal/foro/service"
	"github.com/aussiebroadwan/foro/pkg/httpx"
	"github.com/aussiebroadwan/foro/pkg/slogx"
)

const (
	msgBadRequest     = "Solicitud inválida."
	msgThreadNotFound = "Hilo no encontrado."
	msgServerError    = "Error interno del servidor."
)

// CommentRequest is the body of POST /comentario_ajax/{id}.
type CommentRequest struct {
	Contenido string `json:"contenido" example:"Muy buena recomendación"`
}

// CommentResponse describes the stored comment for the page to append.
type CommentResponse struct {
	Usuario   string `json:"usuario" example:"ana"`
	Contenido string `json:"contenido" example:"Muy buena recomendación"`
	Fecha     string `json:"fecha" example:"2025-03-01 10:02"`
}

type CommentAJAXHandler struct {
	ForumService *service.ForumService
}

// ServeHTTP adds a comment without reloading the thread page.
//
//	@Summary		Add a comment to a thread
//	@Description	Stores a comment by the logged in user and returns it for display.
//	@Description	Blank comments are rejected before the session is checked, so a rejected call never stores anything.
//	@Tags			Comments
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Thread id"
//	@Param			body	body		CommentRequest			true	"Comment"
//	@Success		200		{object}	CommentResponse			"Stored comment"
//	@Failure		400		{object}	httpx.ErrorResponse		"Malformed body, blank comment or control characters"
//	@Failure		401		{object}	httpx.ErrorResponse		"No active session"
//	@Failure		404		{object}	httpx.ErrorResponse		"Unknown thread"
//	@Failure		500		{object}	httpx.ErrorResponse		"Internal server error"
//	@Router			/comentario_ajax/{id} [post].
func (h *CommentAJAXHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := threadID(r)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, msgThreadNotFound)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if strings.TrimSpace(req.Contenido) == "" {
		httpx.WriteError(w, http.StatusBadRequest, service.MsgEmptyComment)
		return
	}

	user := currentUser(ctx)
	if user == nil {
		httpx.WriteError(w, http.StatusUnauthorized, msgLoginToComment)
		return
	}

	view, err := h.ForumService.CreateComment(ctx, user, id, req.Contenido)
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, msgThreadNotFound)
		return
	case errors.As(err, &verr):
		msg := verr.Field("contenido")
		if msg == "" {
			msg = service.MsgEmptyComment
		}
		httpx.WriteError(w, http.StatusBadRequest, msg)
		return
	case err != nil:
		slogx.FromContext(ctx).Error("failed to create comment", "thread_id", id, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CommentResponse{
		Usuario:   view.AuthorUsername,
		Contenido: view.Body,
		Fecha:     view.CreatedAt.UTC().Format(DateLayout),
	})
}
