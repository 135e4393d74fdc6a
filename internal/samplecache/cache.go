// Package samplecache keeps one pre-generated PNG per catalog prompt, on disk
// as {id}.png and mirrored in memory as base64.
//
// The mirror only ever holds ids that are on disk or whose population failed
// (stored as ""). A failed id is not retried until the process restarts.
// Concurrent Get calls for the same id share one model call.
package samplecache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"promptart/internal/catalog"
	"promptart/internal/domain"
	"promptart/internal/imagegen"
	"promptart/internal/storage"
)

// Generator produces fresh images; *imagegen.Service satisfies it.
type Generator interface {
	Generate(ctx context.Context, req imagegen.Request) (imagegen.Result, error)
}

// Cache is safe for concurrent use.
type Cache struct {
	catalog *catalog.Catalog
	store   *storage.FileStore
	gen     Generator
	logger  zerolog.Logger

	mu     sync.RWMutex
	mirror map[int]string
	group  singleflight.Group
}

func New(cat *catalog.Catalog, store *storage.FileStore, gen Generator, logger zerolog.Logger) *Cache {
	return &Cache{
		catalog: cat,
		store:   store,
		gen:     gen,
		logger:  logger.With().Str("component", "samplecache").Logger(),
		mirror:  make(map[int]string, cat.Len()),
	}
}

// Key returns the file name used for id.
func Key(id int) string {
	return strconv.Itoa(id) + ".png"
}

// Get returns the base64 sample for id, populating it from disk or the model
// when the mirror has no entry. A failed population yields "" together with
// the *domain.GenerationError; the "" is remembered.
func (c *Cache) Get(ctx context.Context, id int) (string, error) {
	record, err := c.catalog.ByID(id)
	if err != nil {
		return "", err
	}
	if v, ok := c.Lookup(id); ok {
		return v, nil
	}

	// Population outlives the request that triggered it.
	detached := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(strconv.Itoa(id), func() (any, error) {
		if v, ok := c.Lookup(id); ok {
			return v, nil
		}
		return c.populate(detached, record)
	})
	return v.(string), err
}

func (c *Cache) populate(ctx context.Context, record domain.PromptRecord) (string, error) {
	key := Key(record.ID)

	data, err := c.store.Read(ctx, key)
	if err == nil {
		encoded := base64.StdEncoding.EncodeToString(data)
		c.set(record.ID, encoded)
		c.logger.Debug().Int("prompt_id", record.ID).Msg("loaded sample from disk")
		return encoded, nil
	}
	if !errors.Is(err, storage.ErrNotExist) {
		c.logger.Warn().Err(err).Int("prompt_id", record.ID).Msg("read sample, regenerating")
	}

	c.logger.Info().Int("prompt_id", record.ID).Msg("generating sample image")
	res, err := c.gen.Generate(ctx, imagegen.Request{
		Source: domain.SourceSample,
		Prompt: record.Data(),
	})
	if err != nil {
		c.logger.Error().Err(err).Int("prompt_id", record.ID).Msg("sample generation failed")
		c.set(record.ID, "")
		return "", err
	}

	if _, err := c.store.Write(ctx, key, res.PNG); err != nil {
		c.logger.Error().Err(err).Int("prompt_id", record.ID).Msg("persist sample failed")
		c.set(record.ID, "")
		return "", fmt.Errorf("persist sample %d: %w", record.ID, err)
	}

	encoded := res.Base64()
	c.set(record.ID, encoded)
	return encoded, nil
}

// EnsureWarm calls Get for every catalog id missing from the mirror. It is
// idempotent; ids that already failed are skipped. Two concurrent callers
// may both observe an id as missing, in which case they share its population.
func (c *Cache) EnsureWarm(ctx context.Context) error {
	missing := c.missing()
	if len(missing) == 0 {
		return nil
	}

	c.logger.Info().Int("missing", len(missing)).Msg("Pre-generating/loading sample images")
	for _, id := range missing {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Failures are already logged and remembered as "".
		_, _ = c.Get(ctx, id)
	}
	c.logger.Info().Int("ready", c.Ready()).Msg("Ready sample images")
	return nil
}

// Lookup reads the mirror without populating it.
func (c *Cache) Lookup(id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.mirror[id]
	return v, ok
}

// Snapshot copies the mirror.
func (c *Cache) Snapshot() map[int]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int]string, len(c.mirror))
	for id, v := range c.mirror {
		out[id] = v
	}
	return out
}

// Len counts mirror entries, including failed ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mirror)
}

// Ready counts mirror entries holding an image.
func (c *Cache) Ready() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, v := range c.mirror {
		if v != "" {
			n++
		}
	}
	return n
}

// Path returns the on-disk location of id's sample, whether or not it exists yet.
func (c *Cache) Path(id int) (string, error) {
	if _, err := c.catalog.ByID(id); err != nil {
		return "", err
	}
	return c.store.Path(Key(id))
}

// OnDisk reports whether id's file exists.
func (c *Cache) OnDisk(id int) bool {
	return c.store.Exists(Key(id))
}

func (c *Cache) missing() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []int
	for id := 0; id < c.catalog.Len(); id++ {
		if _, ok := c.mirror[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Cache) set(id int, v string) {
	c.mu.Lock()
	c.mirror[id] = v
	c.mu.Unlock()
}
