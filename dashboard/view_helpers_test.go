package dashboard

import "html/template"

// newTestTemplate returns a template pre-seeded with the arithmetic
// func-map rootView normally adds before parsing child views, so each
// view's Parse can be tested in isolation.
func newTestTemplate() *template.Template {
	return template.New("test").Funcs(template.FuncMap{
		"add":  func(i, j int) int { return i + j },
		"sub":  func(i, j int) int { return i - j },
		"mult": func(i, j int) int { return i * j },
		"div":  func(i, j int) int { return i / j },
	})
}
