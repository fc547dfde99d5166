package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05 MST")
	},
	"hours": func(h float64) string {
		return fmt.Sprintf("%.2f", h)
	},
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"duration": func(seconds int64) string {
		d := time.Duration(seconds) * time.Second
		return fmt.Sprintf("%dh %02dm %02ds", int64(d.Hours()), int64(d.Minutes())%60, seconds%60)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}
