package web

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>facegate</title></head>
<body>
<h1>facegate</h1>
<form method="post" action="/submit">
<label>Secret: <input type="password" name="password" autofocus></label>
<button type="submit">Verify</button>
</form>
</body>
</html>
`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><title>facegate</title></head>
<body>
<p>{{.Message}}</p>
{{if .PhotoLink}}<p><a href="{{.PhotoLink}}">Captured photo</a></p>{{end}}
<p><a href="/">Back</a></p>
</body>
</html>
`))

type resultView struct {
	Message   string
	PhotoLink string
}

type submitRequest struct {
	Password string `json:"password"`
}

type submitResponse struct {
	Outcome   string `json:"outcome"`
	SecretOK  bool   `json:"secret_ok"`
	Message   string `json:"message"`
	Label     string `json:"label,omitempty"`
	PhotoPath string `json:"photo_path,omitempty"`
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/submit", s.handleSubmitForm)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/submit", s.handleSubmitJSON)
	})

	fs := http.StripPrefix("/photos/", http.FileServer(http.Dir(s.photoDir)))
	s.router.Get("/photos/*", fs.ServeHTTP)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, nil); err != nil {
		log.Printf("rendering index: %v", err)
	}
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	res := s.engine.Evaluate(r.Context(), r.FormValue("password"))

	view := resultView{Message: res.Message()}
	if res.PhotoPath != "" {
		view.PhotoLink = "/photos/" + filepath.Base(res.PhotoPath)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !res.SecretOK {
		w.WriteHeader(http.StatusUnauthorized)
	}
	if err := resultTmpl.Execute(w, view); err != nil {
		log.Printf("rendering result: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmitJSON(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	res := s.engine.Evaluate(r.Context(), req.Password)

	status := http.StatusOK
	if !res.SecretOK {
		status = http.StatusUnauthorized
	}
	respondJSON(w, status, submitResponse{
		Outcome:   res.Kind.String(),
		SecretOK:  res.SecretOK,
		Message:   res.Message(),
		Label:     res.Label,
		PhotoPath: res.PhotoPath,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
