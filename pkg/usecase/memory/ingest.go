package memory

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// FolderOptions controls bulk ingestion.
type FolderOptions struct {
	Extensions []string // matched case-insensitively; defaults to .txt and .md
	Recursive  bool
}

// AddFolder ingests every matching file under dir and returns the IDs of the
// documents that were added. A single file failing to read or embed is
// logged and skipped; only a missing directory aborts the batch.
func (u *UseCase) AddFolder(ctx context.Context, dir string, opts FolderOptions) ([]model.DocumentID, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".txt", ".md"}
	}
	for i, ext := range opts.Extensions {
		opts.Extensions[i] = strings.ToLower(ext)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "folder not found", goerr.V("dir", dir))
	}
	if !info.IsDir() {
		return nil, goerr.New("path is not a directory", goerr.V("dir", dir))
	}

	files, err := u.listFiles(dir, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.From(ctx)

	var ids []model.DocumentID
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}

		fi, err := os.Stat(path)
		if err != nil {
			logger.Warn("skipping file", "path", path, "error", err)
			continue
		}

		metadata := map[string]any{
			"filename":  filepath.Base(path),
			"filepath":  path,
			"file_size": fi.Size(),
		}

		id, err := u.Add(ctx, string(raw), metadata)
		if err != nil {
			logger.Warn("skipping file that failed to ingest", "path", path, "error", err)
			continue
		}
		ids = append(ids, id)
	}

	logger.Info("folder ingested", "dir", dir, "files", len(files), "added", len(ids))

	return ids, nil
}

func (u *UseCase) listFiles(dir string, opts FolderOptions) ([]string, error) {
	match := func(name string) bool {
		return slices.Contains(opts.Extensions, strings.ToLower(filepath.Ext(name)))
	}

	var files []string

	if !opts.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read directory", goerr.V("dir", dir))
		}
		for _, entry := range entries {
			if !entry.IsDir() && match(entry.Name()) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
		return files, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk directory", goerr.V("dir", dir))
	}

	return files, nil
}
