package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// DateLayout is how timestamps are shown on pages and in the AJAX response.
const DateLayout = "2006-01-02 15:04"

var templateFuncs = template.FuncMap{
	"nl2br": nl2br,
	"fecha": func(t time.Time) string { return t.UTC().Format(DateLayout) },
}

var pages = mustParsePages("index", "registro", "login", "crear_hilo", "hilo", "error")

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/base.html",
			"templates/"+name+".html",
		))
	}
	return out
}

// nl2br escapes s and turns line breaks into <br>.
func nl2br(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// pageData is the single view model handed to every template.
type pageData struct {
	CurrentUser *domain.User
	Flashes     []Flash

	Form   any
	Errors map[string]string

	Threads []domain.ThreadSummary
	Thread  domain.ThreadDetail

	Status  int
	Message string
}

// render writes the named page. Pending flashes from earlier redirects are
// consumed and shown before any passed in extra.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData, extra ...Flash) {
	data.CurrentUser = currentUser(r.Context())
	data.Flashes = append(popFlashes(w, r), extra...)

	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render template", "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func renderError(w http.ResponseWriter, r *http.Request, status int) {
	msg := "Ha ocurrido un error inesperado."
	if status == http.StatusNotFound {
		msg = "La página que buscas no existe."
	}
	render(w, r, status, "error", pageData{Status: status, Message: msg})
}
