package transform

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed rules/*.tmpl
var rulesFS embed.FS

const (
	fragmentRule = "fragment"
	degradedRule = "degraded"
)

// Rules is the compiled card rewrite rule set. It is immutable once loaded
// and safe to share between goroutines.
type Rules struct {
	tmpl *template.Template
}

// LoadRules compiles the embedded rule set. Call it once at startup and pass
// the result to New.
func LoadRules() (*Rules, error) {
	tmpl, err := template.ParseFS(rulesFS, "rules/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing rule set: %w", err)
	}
	for _, name := range []string{fragmentRule, degradedRule} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("rule set is missing %q", name)
		}
	}
	return &Rules{tmpl: tmpl}, nil
}
