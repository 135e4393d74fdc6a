// Package catalog holds the fixed list of curated prompts.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"promptart/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Prompts []domain.PromptRecord `yaml:"prompts"`
}

// Catalog is a read-only, ordered set of prompt records with dense ids.
type Catalog struct {
	records []domain.PromptRecord
}

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Errorf("catalog: embedded catalog invalid: %w", err))
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(file.Prompts)
}

// New builds a catalog from records whose ids must equal their position.
func New(records []domain.PromptRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, errors.New("catalog: at least one prompt is required")
	}
	out := make([]domain.PromptRecord, len(records))
	for i, rec := range records {
		if rec.ID != i {
			return nil, fmt.Errorf("catalog: prompt at position %d has id %d", i, rec.ID)
		}
		if strings.TrimSpace(rec.Text) == "" {
			return nil, fmt.Errorf("catalog: prompt %d has empty text", rec.ID)
		}
		out[i] = rec
	}
	return &Catalog{records: out}, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// List returns a copy of every record in id order.
func (c *Catalog) List() []domain.PromptRecord {
	out := make([]domain.PromptRecord, len(c.records))
	copy(out, c.records)
	return out
}

// ByID returns the record with the given id or a *domain.PromptNotFoundError.
func (c *Catalog) ByID(id int) (domain.PromptRecord, error) {
	if id < 0 || id >= len(c.records) {
		return domain.PromptRecord{}, &domain.PromptNotFoundError{ID: id}
	}
	return c.records[id], nil
}

// ByCategory returns records whose category equals name under Unicode case
// folding. The result is never nil.
func (c *Catalog) ByCategory(name string) []domain.PromptRecord {
	// Casers carry state and are not safe for concurrent use.
	fold := cases.Fold()
	want := fold.String(name)
	out := []domain.PromptRecord{}
	for _, rec := range c.records {
		if fold.String(rec.Category) == want {
			out = append(out, rec)
		}
	}
	return out
}

// Random picks a record uniformly.
func (c *Catalog) Random() domain.PromptRecord {
	return c.records[rand.Intn(len(c.records))]
}
