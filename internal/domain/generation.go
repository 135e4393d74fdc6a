package domain

import "time"

// GenerationSource says which selection path produced a generation.
type GenerationSource string

const (
	SourceCustom  GenerationSource = "custom"
	SourceCatalog GenerationSource = "catalog"
	SourceRandom  GenerationSource = "random"
	SourceSample  GenerationSource = "sample"
)

// GenerationRecord is the metadata kept for one model invocation. Image bytes
// are never part of it.
type GenerationRecord struct {
	ID         string           `json:"id"`
	RequestID  string           `json:"requestId,omitempty"`
	Source     GenerationSource `json:"source"`
	PromptID   *int             `json:"promptId"`
	Prompt     string           `json:"prompt"`
	Category   string           `json:"category"`
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	DurationMS int64            `json:"durationMs"`
	Bytes      int              `json:"bytes"`
	CreatedAt  time.Time        `json:"createdAt"`
}
