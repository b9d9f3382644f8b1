package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/sheet-catalog/app/catalog"
	"github.com/lysyi3m/sheet-catalog/app/source"
)

// LoadCatalogTask fetches the source, reconciles it and publishes the
// result to the store. Every attempt takes a fresh load token, so a slow
// attempt that finishes after a newer one is discarded.
type LoadCatalogTask struct {
	Task
	source source.Source
	store  *catalog.Store
	opts   catalog.Options
}

func NewLoadCatalogTask(src source.Source, store *catalog.Store, opts catalog.Options) *LoadCatalogTask {
	return &LoadCatalogTask{
		Task:   NewTask(TaskTypeLoadCatalog, src.Name()),
		source: src,
		store:  store,
		opts:   opts,
	}
}

func (t *LoadCatalogTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	token := t.store.BeginLoad()

	result, err := t.source.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load catalog: %w", err)
		t.store.Fail(token, err)
		return err
	}

	records := result.Records(t.opts)

	if !t.store.Commit(token, records) {
		slog.Debug("Discarded superseded catalog load", "source", t.SourceName, "id", t.ID, "seq", token.Seq)
		return nil
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"source", t.SourceName,
		"records", len(records),
		"duration", t.GetDuration().String())

	return nil
}

// Permanent reports whether a load error will not go away by retrying.
func Permanent(err error) bool {
	return errors.Is(err, source.ErrUnauthorized)
}
