// Package prompts loads and renders the JSON prompt templates consumed by
// the agent orchestration layer.
package prompts

import (
	"encoding/json"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager keeps the prompt templates found under a directory, keyed by id.
type Manager struct {
	dir string

	mu      sync.RWMutex
	prompts map[string]PromptTemplate
}

// NewManager loads every *.json template under dir (recursively). A missing
// directory or an unreadable template is logged and skipped, not fatal.
func NewManager(dir string) *Manager {
	m := &Manager{dir: dir, prompts: make(map[string]PromptTemplate)}
	m.load()
	return m
}

func (m *Manager) load() {
	if _, err := os.Stat(m.dir); err != nil {
		log.Printf("prompts directory not found: %s", m.dir)
		return
	}

	err := filepath.WalkDir(m.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("failed to read prompt %s: %v", path, err)
			return nil
		}
		var prompt PromptTemplate
		if err := json.Unmarshal(data, &prompt); err != nil {
			log.Printf("failed to load prompt %s: %v", path, err)
			return nil
		}

		m.mu.Lock()
		m.prompts[prompt.ID] = prompt
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		log.Printf("failed to walk prompts directory %s: %v", m.dir, err)
	}
}

// Get returns the template with the given id, if loaded.
func (m *Manager) Get(id string) (PromptTemplate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prompts[id]
	return p, ok
}

// ByCategory returns all templates in a category.
func (m *Manager) ByCategory(category string) []PromptTemplate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []PromptTemplate
	for _, p := range m.prompts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ByOrganization returns organization-specific templates.
func (m *Manager) ByOrganization(orgID string) []PromptTemplate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []PromptTemplate
	for _, p := range m.prompts {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out
}

// Reload drops the loaded set and re-reads the directory.
func (m *Manager) Reload() {
	m.mu.Lock()
	m.prompts = make(map[string]PromptTemplate)
	m.mu.Unlock()
	m.load()
}
