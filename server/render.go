package server

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	tpl *template.Template
}

func newRenderer() (*renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{tpl: tpl}, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tpl.ExecuteTemplate(w, name, data)
}
