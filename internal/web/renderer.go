package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	revdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

//go:embed templates/*.html
var templateFiles embed.FS

// FirebaseWebConfig is the public Firebase web SDK configuration.
type FirebaseWebConfig struct {
	APIKey     string
	AuthDomain string
	ProjectID  string
}

type pageData struct {
	SignedIn bool
	Signals  string
	State    workspace.State
	Ratings  []int
	Firebase FirebaseWebConfig
}

// Renderer renders the page and the fragments patched by the stream.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("web").Funcs(template.FuncMap{
		"starLabel": revdomain.StarLabel,
		"selectedName": func(s workspace.State) string {
			if u, ok := s.SelectedUser(); ok {
				return u.DisplayName
			}
			return ""
		},
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Page(w io.Writer, data pageData) error {
	return r.tmpl.ExecuteTemplate(w, "page", data)
}

// Fragment renders a named template to a string.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// formSignals are the page signals datastar sends with every action.
type formSignals struct {
	Selected   string `json:"selected"`
	Text       string `json:"text"`
	Rating     int    `json:"rating"`
	Submitting bool   `json:"submitting"`
}

func initialSignals(s workspace.State) (string, error) {
	b, err := json.Marshal(formSignals{
		Selected:   s.Selected,
		Text:       s.Form.Text,
		Rating:     s.Form.Rating,
		Submitting: s.Form.Submitting,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ratings() []int {
	out := make([]int, 0, revdomain.MaxRating)
	for r := revdomain.MinRating; r <= revdomain.MaxRating; r++ {
		out = append(out, r)
	}
	return out
}
