package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kavira-ai/voicecore/internal/models"
)

// Renderer executes prompt templates against agent context variables.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render fills a template with the variables derived from ctx. It fails if
// any required variable is missing from the context.
func (r *Renderer) Render(prompt PromptTemplate, ctx models.AgentContext) (string, error) {
	vars := ctx.ToPromptVariables()

	if !prompt.ValidateContext(vars) {
		var missing []string
		for _, name := range prompt.RequiredVariables() {
			if _, ok := vars[name]; !ok {
				missing = append(missing, name)
			}
		}
		return "", fmt.Errorf("missing required variables: %s", strings.Join(missing, ", "))
	}

	return r.RenderString(prompt.Template, vars)
}

// RenderString renders a raw template string directly.
func (r *Renderer) RenderString(templateString string, vars map[string]any) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(templateString)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return b.String(), nil
}
