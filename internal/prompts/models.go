package prompts

// PromptVariable describes one variable a template expects.
type PromptVariable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Required    bool   `json:"required"`
}

// PromptTemplate is one template definition loaded from disk.
type PromptTemplate struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Template       string           `json:"template"`
	Variables      []PromptVariable `json:"variables,omitempty"`
	Category       string           `json:"category,omitempty"`
	Version        string           `json:"version,omitempty"`
	OrganizationID string           `json:"organization_id,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
	Tags           []string         `json:"tags,omitempty"`
}

// RequiredVariables lists the names of variables marked required.
func (p PromptTemplate) RequiredVariables() []string {
	var names []string
	for _, v := range p.Variables {
		if v.Required {
			names = append(names, v.Name)
		}
	}
	return names
}

// ValidateContext reports whether vars covers every required variable.
func (p PromptTemplate) ValidateContext(vars map[string]any) bool {
	for _, name := range p.RequiredVariables() {
		if _, ok := vars[name]; !ok {
			return false
		}
	}
	return true
}
