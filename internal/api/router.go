package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/soaringjerry/formdrop/internal/middleware"
	"github.com/soaringjerry/formdrop/internal/models"
	"github.com/soaringjerry/formdrop/internal/services"
	"github.com/soaringjerry/formdrop/internal/uploads"
	"github.com/soaringjerry/formdrop/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxUploadMemory caps how much of a multipart body is buffered in memory.
const maxUploadMemory = 32 << 20

// Collector is the service surface the handlers need.
type Collector interface {
	Submit(sub services.Submission) (*models.Response, error)
	ListAll() []models.Response
	DeleteOne(id string) (bool, error)
	Clear() error
}

// Router wires the form, listing, delete and export routes to the collector
// service and renders the embedded HTML views.
type Router struct {
	svc       Collector
	uploadDir string
	logger    *zap.Logger
	tmpl      *template.Template
}

// NewRouter parses the embedded templates and builds the HTTP surface.
func NewRouter(svc Collector, uploadDir string, logger *zap.Logger) (*Router, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("views").Funcs(template.FuncMap{
		"basename": path.Base,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Router{svc: svc, uploadDir: uploadDir, logger: logger, tmpl: tmpl}, nil
}

// Register attaches all routes to r.
func (rt *Router) Register(r *mux.Router) {
	r.HandleFunc("/", rt.handleForm).Methods(http.MethodGet)
	r.HandleFunc("/", rt.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/responses", rt.handleResponses).Methods(http.MethodGet)
	r.HandleFunc("/responses/export.csv", rt.handleExportCSV).Methods(http.MethodGet)
	r.HandleFunc("/responses/{id}/delete", rt.handleDelete).Methods(http.MethodPost)
	r.HandleFunc("/clear_responses", rt.handleClear).Methods(http.MethodPost)
	r.HandleFunc("/uploads/{name}", rt.handleUploadedFile).Methods(http.MethodGet)
}

// GET /
func (rt *Router) handleForm(w http.ResponseWriter, r *http.Request) {
	rt.render(w, "index.html", nil)
}

// POST / — multipart form submission; redirects to the listing on success.
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "could not parse form", http.StatusBadRequest)
		return
	}
	sub := services.Submission{
		Question1:       r.FormValue("question1"),
		Question2:       r.FormValue("question2"),
		MultipleOption:  r.FormValue("multiple_option"),
		YesNo:           r.FormValue("yes_no"),
		CheckboxAnswers: r.Form["checkbox"],
	}

	file, header, err := r.FormFile("file_upload")
	switch {
	case err == nil:
		defer file.Close()
		sub.File = &services.UploadedFile{Filename: header.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no file submitted
	default:
		http.Error(w, "could not read uploaded file", http.StatusBadRequest)
		return
	}

	if _, err := rt.svc.Submit(sub); err != nil {
		rt.logger.Error("submit response", zap.Error(err))
		http.Error(w, "could not save response", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/responses", http.StatusSeeOther)
}

// GET /responses?msg=key
func (rt *Router) handleResponses(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFrom(r.Context())
	message := ""
	if key := r.URL.Query().Get("msg"); key != "" {
		message = utils.T(locale, key)
	}
	rs := rt.svc.ListAll()
	rt.render(w, "responses.html", map[string]any{
		"Responses": rs,
		"Count":     len(rs),
		"Message":   message,
	})
}

// POST /responses/{id}/delete
func (rt *Router) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	found, err := rt.svc.DeleteOne(id)
	key := "responses.deleted"
	switch {
	case err != nil:
		rt.logger.Error("delete response", zap.String("id", id), zap.Error(err))
		key = "responses.deletefailed"
	case !found:
		key = "responses.notfound"
	}
	rt.redirectWithMessage(w, r, key)
}

// POST /clear_responses
func (rt *Router) handleClear(w http.ResponseWriter, r *http.Request) {
	key := "responses.cleared"
	if err := rt.svc.Clear(); err != nil {
		rt.logger.Error("clear responses", zap.Error(err))
		key = "responses.clearfailed"
	}
	rt.redirectWithMessage(w, r, key)
}

// GET /responses/export.csv
func (rt *Router) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	b, err := services.ExportResponsesCSV(rt.svc.ListAll())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=responses.csv")
	_, _ = w.Write(b)
}

// GET /uploads/{name} — serves a stored upload by its on-disk base name.
func (rt *Router) handleUploadedFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" || name != uploads.SanitizeFilename(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(rt.uploadDir, name))
}

func (rt *Router) redirectWithMessage(w http.ResponseWriter, r *http.Request, key string) {
	http.Redirect(w, r, "/responses?msg="+url.QueryEscape(key), http.StatusSeeOther)
}

func (rt *Router) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rt.tmpl.ExecuteTemplate(w, name, data); err != nil {
		rt.logger.Error("render template", zap.String("template", name), zap.Error(err))
	}
}
