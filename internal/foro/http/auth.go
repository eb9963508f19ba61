package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/foro/internal/foro/service"
	"github.com/aussiebroadwan/foro/pkg/httpx"
	"github.com/aussiebroadwan/foro/pkg/slogx"
	"github.com/aussiebroadwan/foro/pkg/validx"
)

const (
	msgRegistered = "Registro exitoso. Ahora puedes iniciar sesión."
	msgLoggedIn   = "Has iniciado sesión correctamente."
	msgLoggedOut  = "Has cerrado sesión."
)

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	ForumService   *service.ForumService
	SessionService *service.SessionService
	CookieSecure   bool
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "registro", pageData{Form: service.RegisterInput{}})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	in := service.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	_, err := h.ForumService.Register(r.Context(), in)
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		in.Password, in.PasswordConfirm = "", ""
		render(w, r, http.StatusOK, "registro", pageData{Form: in, Errors: verr.Fields})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("registration failed", "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}

	addFlash(w, r, FlashSuccess, msgRegistered)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "login", pageData{Form: loginForm{}})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if err := validx.Struct(form); err != nil {
		var fe validx.FieldErrors
		errors.As(err, &fe)
		render(w, r, http.StatusOK, "login", pageData{Form: loginForm{Username: form.Username}, Errors: fe})
		return
	}

	user, err := h.ForumService.Authenticate(ctx, form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		render(w, r, http.StatusOK, "login", pageData{Form: loginForm{Username: form.Username}},
			Flash{Category: FlashDanger, Message: service.MsgInvalidCredentials})
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("login failed", "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.SessionService.Create(ctx, user, r.UserAgent(), httpx.GetRemoteIP(r))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to create session", "err", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, token, expiresAt, h.CookieSecure)
	addFlash(w, r, FlashSuccess, msgLoggedIn)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.SessionService.Destroy(r.Context(), c.Value); err != nil {
			slogx.FromContext(r.Context()).Error("failed to destroy session", "err", err)
		}
	}

	clearSessionCookie(w, h.CookieSecure)
	addFlash(w, r, FlashInfo, msgLoggedOut)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
