package domain

// CategoryCustom tags prompts that came from free text instead of the catalog.
const CategoryCustom = "custom"

// PromptRecord is one curated catalog entry. Records are immutable once the
// catalog is loaded.
type PromptRecord struct {
	ID       int    `json:"id" yaml:"id"`
	Text     string `json:"prompt" yaml:"prompt"`
	Category string `json:"category" yaml:"category"`
	Style    string `json:"style" yaml:"style"`
}

// PromptData is the wire form of the prompt used for a generation. ID is nil
// for custom prompts.
type PromptData struct {
	ID       *int   `json:"id"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
	Style    string `json:"style"`
}

// Data converts a catalog record into its wire form.
func (p PromptRecord) Data() PromptData {
	id := p.ID
	return PromptData{ID: &id, Prompt: p.Text, Category: p.Category, Style: p.Style}
}

// CustomPromptData describes a free-text prompt.
func CustomPromptData(text string) PromptData {
	return PromptData{Prompt: text, Category: CategoryCustom, Style: CategoryCustom}
}
