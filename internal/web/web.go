package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates - все HTML-страницы приложения; имя шаблона = имя файла
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
}

// Static - содержимое /static (стили, favicon)
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}
