package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider renders named prompt templates.
type PromptProvider interface {
	BuildPrompt(name, variant string, data interface{}) (string, error)
	GetTemplates() map[string]map[string]*template.Template
}

type PromptManager struct {
	templates map[string]map[string]*template.Template // name -> variant -> compiled prompt
}

// loaded prompt template; Footer is appended to every variant
type PromptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
	Footer     string            `yaml:"footer"`
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"answer": func(s *string) string {
		if s == nil || strings.TrimSpace(*s) == "" {
			return "Not answered"
		}
		return *s
	},
	"score": func(s *int) string {
		if s == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *s)
	},
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		templates: make(map[string]map[string]*template.Template),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// builds a prompt for the given template name and variant
func (pm *PromptManager) BuildPrompt(name, variant string, data interface{}) (string, error) {
	variants, exists := pm.templates[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	tmpl, exists := variants[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for template '%s'", variant, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s/%s: %w", name, variant, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (pm *PromptManager) GetTemplates() map[string]map[string]*template.Template {
	return pm.templates
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if len(promptTemplate.Variants) == 0 {
			return fmt.Errorf("template file %s defines no variants", entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.templates[name] = make(map[string]*template.Template)

		for variant, variantPrompt := range promptTemplate.Variants {
			var fullPrompt strings.Builder
			if promptTemplate.BasePrompt != "" {
				fullPrompt.WriteString(promptTemplate.BasePrompt)
				fullPrompt.WriteString("\n\n")
			}
			fullPrompt.WriteString(variantPrompt)
			if promptTemplate.Footer != "" {
				fullPrompt.WriteString("\n")
				fullPrompt.WriteString(promptTemplate.Footer)
			}

			tmpl, err := template.New(name + "/" + variant).
				Funcs(funcs).
				Option("missingkey=error").
				Parse(fullPrompt.String())
			if err != nil {
				return fmt.Errorf("failed to compile template %s/%s: %w", name, variant, err)
			}
			pm.templates[name][variant] = tmpl
		}
	}

	return nil
}
