package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchCatalog reloads the catalog at path whenever the file is written or replaced
// and passes the new catalog to onChange. Reload errors go to onError and the caller
// keeps its previous catalog. It blocks until ctx is done.
//
// The directory is watched rather than the file, so editors that save by rename
// are picked up too.
func WatchCatalog(ctx context.Context, path string, onChange func(*Catalog), onError func(error)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			c, err := LoadCatalog(target)
			if err != nil {
				onError(err)
				continue
			}
			onChange(c)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}
