package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	ngaerrors "nga/internal/errors"
)

// DefaultChunkSize is the number of files handed to one worker.
const DefaultChunkSize = 10

// ListFiles walks root and returns the absolute paths of regular files
// accepted by filter, sorted. Unreadable subdirectories are skipped; an
// unreadable root is an error.
func ListFiles(root string, filter Filter) ([]string, error) {
	if filter == nil {
		filter = Chain()
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !filter(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && filter(rel, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.FileReadFailed, "cannot list project files", err, nil).
			WithDetails(map[string]string{"root": root})
	}

	sort.Strings(files)
	return files, nil
}

// Chunk splits items into consecutive slices of at most size elements.
// A non-positive size uses DefaultChunkSize.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
