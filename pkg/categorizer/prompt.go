package categorizer

import (
	"fmt"
	"strings"
	"text/template"

	"notealog/pkg/domain"
)

// maxContextContent is the number of characters of a similar note's content
// shown in the prompt.
const maxContextContent = 70

const promptTemplate = `
You are a content categorizer. Help me organize content by selecting the most appropriate category.

Content to categorize:
Title: {{.Title}}
Content: {{.Content}}

{{range .Context}}
Most similar existing content:
Folder: {{folder .Folder}},
Title: {{.Title}},
Content: {{.Content}},
Score: {{.Score}}

{{end}}
{{if .Categories}}
Existing Categories: [{{join .Categories ", "}}]
{{end}}

Instructions:
1. Choose an existing category if it fits well
2. Create a new category only if necessary (keep it brief)
3. Return ONLY the category name without explanation

Category:`

var prompt = template.Must(template.New("categorize").Funcs(template.FuncMap{
	"join": strings.Join,
	"folder": func(name *string) string {
		if name == nil {
			return "none"
		}
		return *name
	},
}).Parse(promptTemplate))

type promptData struct {
	Title      string
	Content    string
	Context    []domain.ContextEntry
	Categories []string
}

// RenderPrompt renders the categorization prompt. An empty context or
// category list leaves its section out.
func RenderPrompt(title, content string, entries []domain.ContextEntry, categories []string) (string, error) {
	var sb strings.Builder
	err := prompt.Execute(&sb, promptData{
		Title:      title,
		Content:    content,
		Context:    entries,
		Categories: categories,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// truncate cuts s to max characters and marks the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
