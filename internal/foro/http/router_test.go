package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aussiebroadwan/foro/internal/foro/service"
	"github.com/aussiebroadwan/foro/internal/foro/store/drivers/sqlite"
	"github.com/aussiebroadwan/foro/pkg/cryptox"
	"github.com/aussiebroadwan/foro/pkg/httpx"
	"github.com/aussiebroadwan/foro/pkg/jwtx"
	"github.com/aussiebroadwan/foro/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "foro-http-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testServer struct {
	*httptest.Server
	store *sqlite.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHMAC("test-secret", "foro")
	require.NoError(t, err)

	router := NewRouter("test", st, httpx.NewMetrics(prometheus.NewRegistry()), slogx.Discard())
	router.ForumService = &service.ForumService{Store: st}
	router.SessionService = &service.SessionService{Store: st, Signer: signer}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})
	return &testServer{Server: srv, store: st}
}

// newClient returns a client with its own cookie jar that does not follow
// redirects.
func (s *testServer) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func postForm(t *testing.T, c *http.Client, u string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func postJSON(t *testing.T, c *http.Client, u, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := c.Post(u, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (s *testServer) register(t *testing.T, c *http.Client, username, email string) {
	t.Helper()
	resp, _ := postForm(t, c, s.URL+"/registro", url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func (s *testServer) login(t *testing.T, c *http.Client, username string) {
	t.Helper()
	resp, _ := postForm(t, c, s.URL+"/login", url.Values{
		"username": {username},
		"password": {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func (s *testServer) createThread(t *testing.T, c *http.Client, title, body string) int64 {
	t.Helper()
	resp, _ := postForm(t, c, s.URL+"/crear_hilo", url.Values{"titulo": {title}, "contenido": {body}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	threads, err := s.store.Threads().ListThreads(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, threads)
	return threads[0].ID
}

func (s *testServer) commentCount(t *testing.T, threadID int64) int {
	t.Helper()
	comments, err := s.store.Comments().ListCommentsByThread(context.Background(), threadID)
	require.NoError(t, err)
	return len(comments)
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)

	srv.register(t, c, "ana", "ana@x.com")

	_, body := get(t, c, srv.URL+"/login")
	require.Contains(t, body, msgRegistered)

	// Flash is shown once.
	_, body = get(t, c, srv.URL+"/login")
	require.NotContains(t, body, msgRegistered)

	resp, body := postForm(t, c, srv.URL+"/registro", url.Values{
		"username":         {"ana"},
		"email":            {"otra@x.com"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, service.MsgUsernameTaken)

	resp, body = postForm(t, c, srv.URL+"/login", url.Values{"username": {"ana"}, "password": {"incorrecta"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, service.MsgInvalidCredentials)

	resp, body = postForm(t, c, srv.URL+"/login", url.Values{"username": {"nadie"}, "password": {"secret1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, service.MsgInvalidCredentials)

	srv.login(t, c, "ana")

	_, body = get(t, c, srv.URL+"/")
	require.Contains(t, body, msgLoggedIn)
	require.Contains(t, body, "Hola, ana")

	// Logged in users are sent away from the auth forms.
	resp, _ = get(t, c, srv.URL+"/login")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = get(t, c, srv.URL+"/registro")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestRegister_FieldErrorsRerenderForm(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)

	resp, body := postForm(t, c, srv.URL+"/registro", url.Values{
		"username":         {"ana"},
		"email":            {"no-es-email"},
		"password":         {"secret1"},
		"password_confirm": {"secret2"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Dirección de email inválida.")
	require.Contains(t, body, "Las contraseñas deben coincidir.")
	require.Contains(t, body, `value="ana"`)
	require.NotContains(t, body, "secret1", "passwords are never echoed back")
}

func TestRegister_ControlCharacters(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)

	resp, body := postForm(t, c, srv.URL+"/registro", url.Values{
		"username":         {"\x00bob"},
		"email":            {"bob@x.com"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, service.MsgInvalidText)

	exists, err := srv.store.Users().EmailExists(context.Background(), "bob@x.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)
	srv.register(t, c, "ana", "ana@x.com")
	srv.login(t, c, "ana")

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	var token string
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == SessionCookieName {
			token = ck.Value
		}
	}
	require.NotEmpty(t, token)

	resp, _ := get(t, c, srv.URL+"/logout")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	_, body := get(t, c, srv.URL+"/")
	require.Contains(t, body, msgLoggedOut)
	require.NotContains(t, body, "Hola, ana")

	// Replaying the old cookie does not bring the session back.
	replay := srv.newClient(t)
	replay.Jar.SetCookies(u, []*http.Cookie{{Name: SessionCookieName, Value: token}})
	resp, _ = get(t, replay, srv.URL+"/crear_hilo")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// Logging out without a session goes to the login page.
	resp, _ = get(t, srv.newClient(t), srv.URL+"/logout")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestCreateThread(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)

	anon := srv.newClient(t)
	resp, _ := get(t, anon, srv.URL+"/crear_hilo")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	srv.register(t, c, "ana", "ana@x.com")
	srv.login(t, c, "ana")

	resp, body := get(t, c, srv.URL+"/crear_hilo")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `name="titulo"`)

	resp, body = postForm(t, c, srv.URL+"/crear_hilo", url.Values{"titulo": {""}, "contenido": {"x"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Este campo es obligatorio.")

	srv.createThread(t, c, "Primero", "uno")
	id := srv.createThread(t, c, "Cine under 2h", "recomendaciones")

	_, body = get(t, c, srv.URL+"/")
	require.Contains(t, body, msgThreadCreated)
	require.Less(t, strings.Index(body, "Cine under 2h"), strings.Index(body, "Primero"), "newest thread first")

	resp, body = get(t, anon, srv.URL+"/hilo/"+itoa(id))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "recomendaciones")
	require.Contains(t, body, "/static/js/main.js")
}

func TestThread_NotFound(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)

	for _, path := range []string{"/hilo/9999", "/hilo/abc", "/hilo/-1", "/no-existe"} {
		resp, body := get(t, c, srv.URL+path)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		require.Contains(t, body, "La página que buscas no existe.")
	}
}

func TestPageComment(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)
	srv.register(t, c, "ana", "ana@x.com")
	srv.login(t, c, "ana")
	id := srv.createThread(t, c, "Hilo", "cuerpo")
	threadURL := srv.URL + "/hilo/" + itoa(id)

	t.Run("anonymous is sent to login with a warning", func(t *testing.T) {
		anon := srv.newClient(t)
		resp, _ := postForm(t, anon, threadURL, url.Values{"contenido": {"hola"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/login", resp.Header.Get("Location"))

		_, body := get(t, anon, srv.URL+"/login")
		require.Contains(t, body, msgLoginToComment)
		require.Contains(t, body, "alert-warning")
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("blank comment re-renders the thread", func(t *testing.T) {
		resp, body := postForm(t, c, threadURL, url.Values{"contenido": {"   "}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, service.MsgEmptyComment)
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("control characters re-render the thread", func(t *testing.T) {
		resp, body := postForm(t, c, threadURL, url.Values{"contenido": {"\x00hola"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, service.MsgInvalidText)
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("unknown thread", func(t *testing.T) {
		resp, _ := postForm(t, c, srv.URL+"/hilo/9999", url.Values{"contenido": {"hola"}})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("comment is added", func(t *testing.T) {
		resp, _ := postForm(t, c, threadURL, url.Values{"contenido": {"línea uno\nlínea <dos>"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/hilo/"+itoa(id), resp.Header.Get("Location"))

		_, body := get(t, c, threadURL)
		require.Contains(t, body, msgCommentAdded)
		require.Contains(t, body, "línea uno<br>línea &lt;dos&gt;")
		require.Equal(t, 1, srv.commentCount(t, id))
	})
}

func TestCommentAJAX(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)
	srv.register(t, c, "ana", "ana@x.com")
	srv.login(t, c, "ana")
	id := srv.createThread(t, c, "Hilo", "cuerpo")
	ajaxURL := srv.URL + "/comentario_ajax/" + itoa(id)
	anon := srv.newClient(t)

	t.Run("blank body is rejected before auth", func(t *testing.T) {
		resp, out := postJSON(t, anon, srv.URL+"/comentario_ajax/1", `{"contenido": ""}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, service.MsgEmptyComment, out["error"])

		resp, out = postJSON(t, c, ajaxURL, `{"contenido": "  \n "}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotEmpty(t, out["error"])
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		resp, out := postJSON(t, anon, ajaxURL, `{"contenido": "hola"}`)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.NotEmpty(t, out["error"])
		require.Empty(t, resp.Header.Get("Location"))
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, out := postJSON(t, c, ajaxURL, `{"contenido":`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotEmpty(t, out["error"])
	})

	t.Run("unknown thread", func(t *testing.T) {
		resp, out := postJSON(t, c, srv.URL+"/comentario_ajax/9999", `{"contenido": "hola"}`)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotEmpty(t, out["error"])
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		resp, out := postJSON(t, c, ajaxURL, `{"contenido": "\u0000hola"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, service.MsgInvalidText, out["error"])
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("oversized body", func(t *testing.T) {
		big := `{"contenido": "` + strings.Repeat("a", maxBodyBytes) + `"}`
		resp, out := postJSON(t, c, ajaxURL, big)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, msgBadRequest, out["error"])
		require.Zero(t, srv.commentCount(t, id))
	})

	t.Run("success", func(t *testing.T) {
		resp, out := postJSON(t, c, ajaxURL, `{"contenido": "Muy buena"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
		require.Equal(t, "ana", out["usuario"])
		require.Equal(t, "Muy buena", out["contenido"])
		require.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, out["fecha"])
		require.Equal(t, 1, srv.commentCount(t, id))
	})
}

func TestSystemEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)

	resp, body := get(t, c, srv.URL+"/livez")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	resp, body = get(t, c, srv.URL+"/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	require.Equal(t, "ok", health.Checks.Database)

	resp, body = get(t, c, srv.URL+"/static/js/main.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "comentario_ajax")

	resp, body = get(t, c, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `route="GET /livez"`)
}

func TestReadyz_DatabaseDown(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.store.Close())

	resp, body := get(t, srv.newClient(t), srv.URL+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Contains(t, body, "degraded")
}

func TestSessionStoreFailure(t *testing.T) {
	srv := newTestServer(t)
	c := srv.newClient(t)
	srv.register(t, c, "ana", "ana@x.com")
	srv.login(t, c, "ana")
	id := srv.createThread(t, c, "Hilo", "cuerpo")

	require.NoError(t, srv.store.Close())

	resp, _ := get(t, c, srv.URL+"/crear_hilo")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Empty(t, resp.Header.Get("Location"))

	resp, out := postJSON(t, c, srv.URL+"/comentario_ajax/"+itoa(id), `{"contenido": "hola"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, msgServerError, out["error"])
}

func TestNl2br(t *testing.T) {
	require.Equal(t, "a<br>b<br>c", string(nl2br("a\nb\r\nc")))
	require.Equal(t, "&lt;script&gt;", string(nl2br("<script>")))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
