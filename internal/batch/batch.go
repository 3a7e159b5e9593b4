// Package batch fans a directory of documents out across a worker pool,
// and optionally watches the directory for newly arriving files.
package batch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/tsawler/layoutmd/internal/document"
	"github.com/tsawler/layoutmd/internal/metrics"
)

// Config controls the batch driver.
type Config struct {
	MaxWorkers int // 0 selects runtime.NumCPU()
	Language   string
}

func (c Config) withDefaults() Config {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = runtime.NumCPU()
	}
	return c
}

// job is one document's work item: its identifying name and already
// rasterized page images.
type job struct {
	index int
	name  string
	pages []document.PageImage
}

// Result is one document's outcome: its rendered Markdown, or the error
// that stopped processing entirely (a per-page OCR failure does not
// appear here — the driver already skips and logs those pages itself).
type Result struct {
	Name     string
	Markdown string
	Err      error
}

// Run processes every document in docs through driver's pipeline across
// up to cfg.MaxWorkers goroutines, returning one Result per document in
// the map's iteration order (so unspecified; each Result carries its
// Name), and recording per-document outcomes against reg.
func Run(ctx context.Context, driver *document.Driver, cfg Config, reg *metrics.Registry, docs map[string][]document.PageImage, logger *slog.Logger) []Result {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}

	jobs := make(chan job)
	results := make([]Result, len(names))

	var wg sync.WaitGroup
	workers := cfg.MaxWorkers
	if workers > len(names) {
		workers = len(names)
	}
	if workers == 0 {
		return results[:0]
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				md, err := driver.Process(ctx, cfg.Language, j.pages)
				outcome := "ok"
				if err != nil {
					outcome = "error"
					logger.Error("document processing failed", "document", j.name, "error", err)
				}
				if reg != nil {
					reg.PagesProcessed.WithLabelValues(outcome).Add(float64(len(j.pages)))
				}
				results[j.index] = Result{Name: j.name, Markdown: md, Err: err}
			}
		}()
	}

	for i, name := range names {
		select {
		case jobs <- job{index: i, name: name, pages: docs[name]}:
		case <-ctx.Done():
			results[i] = Result{Name: name, Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
