package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"semindex/internal/extractor"
	"semindex/internal/provider"
	"semindex/internal/storage"
	"semindex/pkg/types"
)

// Defaults for indexing options
const (
	DefaultConcurrency     = 3
	DefaultMaxSummaryChars = 500
)

// Options configures one indexing run.
type Options struct {
	// Concurrency is the batch width: how many files are processed
	// concurrently within one batch. Batches run strictly sequentially.
	Concurrency int
	// Force reprocesses files that already have a record for their path.
	Force bool
	// MaxSummaryChars bounds the generated summary length.
	MaxSummaryChars int
	// OnProgress, if set, receives a snapshot after every per-file state
	// transition. It is called from worker goroutines and must be fast.
	OnProgress func(Progress)
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxSummaryChars <= 0 {
		o.MaxSummaryChars = DefaultMaxSummaryChars
	}
}

// Indexer orchestrates discovery, extraction, summarization, embedding, and
// persistence for a set of files.
type Indexer struct {
	store     storage.VectorStore
	provider  provider.SemanticProvider
	extractor *extractor.Extractor
}

// New creates an Indexer over the given store and provider.
func New(store storage.VectorStore, prov provider.SemanticProvider) *Indexer {
	return &Indexer{
		store:     store,
		provider:  prov,
		extractor: extractor.New(),
	}
}

// task is one queued file with its identity carried over from a prior record.
type task struct {
	path         string
	size         int64
	modifiedAt   time.Time
	priorID      string
	priorCreated time.Time
}

// IndexPath indexes a file or directory tree. Directories are walked
// recursively with hidden directories skipped; only allow-listed text
// extensions are considered. Per-file failures are recorded in the returned
// stats and never abort the run; only discovery errors and context
// cancellation do.
func (ix *Indexer) IndexPath(ctx context.Context, root string, opts *Options) (*types.IndexStats, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.normalize()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", root, err)
	}

	paths, err := discover(absRoot)
	if err != nil {
		return nil, err
	}

	tr := newTracker(opts.OnProgress)

	tasks := make([]task, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return tr.stats(), err
		}
		tr.transition(path, types.StateDiscovered, types.Usage{}, nil)
		t, skip, err := ix.plan(ctx, path, opts.Force)
		if err != nil {
			tr.transition(path, types.StateErrored, types.Usage{}, err)
			continue
		}
		if skip {
			tr.transition(path, types.StateSkipped, types.Usage{}, nil)
			continue
		}
		tr.transition(path, types.StateQueued, types.Usage{}, nil)
		tasks = append(tasks, t)
	}

	for start := 0; start < len(tasks); start += opts.Concurrency {
		end := start + opts.Concurrency
		if end > len(tasks) {
			end = len(tasks)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, t := range tasks[start:end] {
			t := t
			g.Go(func() error {
				tr.transition(t.path, types.StateProcessing, types.Usage{}, nil)
				usage, err := ix.process(gctx, t, opts.MaxSummaryChars)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					// Partial usage: tokens may have been spent before the failure
					tr.transition(t.path, types.StateErrored, usage, err)
					return nil
				}
				tr.transition(t.path, types.StateCompleted, usage, nil)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return tr.stats(), err
		}
	}

	return tr.stats(), nil
}

// IndexFile indexes a single file unconditionally, bypassing change detection
// and the extension allow-list. The prior record's identity is preserved when
// the path was indexed before.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (types.Usage, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return types.Usage{}, fmt.Errorf("resolve path %s: %w", path, err)
	}

	t, _, err := ix.plan(ctx, absPath, true)
	if err != nil {
		return types.Usage{}, err
	}
	return ix.process(ctx, t, DefaultMaxSummaryChars)
}

// discover enumerates candidate files under root. A file root yields itself;
// a directory root is walked recursively, skipping hidden directories and
// filtering by the extension allow-list.
func discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		if !Indexable(root) {
			return nil, nil
		}
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if Indexable(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// plan stats one candidate and decides skip vs queue. An existing record for
// the path skips the file unless force is set; when queued, the prior
// record's id and creation time carry over.
func (ix *Indexer) plan(ctx context.Context, path string, force bool) (task, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return task{}, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return task{}, false, fmt.Errorf("%s is a directory", path)
	}

	t := task{path: path, size: info.Size(), modifiedAt: info.ModTime()}

	prior, err := ix.store.GetByPath(ctx, path)
	switch {
	case err == nil:
		if !force {
			return t, true, nil
		}
		t.priorID = prior.ID
		t.priorCreated = prior.CreatedAt
	case errors.Is(err, storage.ErrNotFound):
		// First index of this path
	default:
		return task{}, false, err
	}

	return t, false, nil
}

// process runs the per-file pipeline: extract, summarize, embed the summary,
// normalize, upsert.
func (ix *Indexer) process(ctx context.Context, t task, maxSummaryChars int) (types.Usage, error) {
	var usage types.Usage

	extracted, err := ix.extractor.Extract(t.path)
	if err != nil {
		return usage, err
	}

	summary, err := ix.provider.Summarize(ctx, extracted.Text, maxSummaryChars)
	if err != nil {
		return usage, err
	}
	usage.Add(summary.Usage)

	embedding, err := ix.provider.Embed(ctx, summary.Text)
	if err != nil {
		return usage, err
	}
	usage.Add(embedding.Usage)

	record := &types.FileRecord{
		FileMetadata: types.FileMetadata{
			ID:         t.priorID,
			Path:       t.path,
			Name:       filepath.Base(t.path),
			MIMEType:   mimeFor(t.path),
			SizeBytes:  t.size,
			CreatedAt:  t.priorCreated,
			ModifiedAt: t.modifiedAt,
		},
		Summary:   summary.Text,
		Embedding: storage.Normalize(embedding.Vector),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := ix.store.Upsert(ctx, record); err != nil {
		return usage, err
	}
	return usage, nil
}
