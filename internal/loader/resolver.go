package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"filefixtures/internal/domain"
)

// DefaultOrderFile is the sidecar file that fixes the load order of a directory
const DefaultOrderFile = "ordered.txt"

// ResolveDir returns the fixture files of dir in load order.
//
// When dir contains the order file, its entries are loaded exactly in the
// listed order. Otherwise entries are sorted byte-wise by name. In both
// cases files without a recognized fixture extension are skipped.
func (l *Loader) ResolveDir(dir string) ([]domain.FixtureFile, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	orderPath := filepath.Join(dir, l.orderFile)
	data, err := os.ReadFile(orderPath)

	var names []string
	switch {
	case err == nil:
		names, err = l.orderedNames(dir, orderPath, data)
	case errors.Is(err, fs.ErrNotExist):
		names, err = sortedNames(dir)
	default:
		err = fmt.Errorf("failed to read order file: %w", err)
	}
	if err != nil {
		return nil, err
	}

	files := make([]domain.FixtureFile, 0, len(names))
	for _, name := range names {
		format, _ := domain.FormatForPath(name)
		files = append(files, domain.FixtureFile{
			Path:     filepath.Join(dir, name),
			Format:   format,
			Position: len(files),
		})
	}
	return files, nil
}

// orderedNames reads the order file. Blank lines and lines starting with
// '#' are ignored; every remaining entry must name an existing file.
func (l *Loader) orderedNames(dir, orderPath string, data []byte) ([]string, error) {
	var names []string
	for i, line := range strings.Split(string(data), "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		if !domain.IsFixturePath(entry) {
			l.logger.Debug("Skipping order file entry with unrecognized extension", "order_file", orderPath, "entry", entry)
			continue
		}

		fail := func(reason string) error {
			return &domain.OrderFileError{Path: orderPath, Line: i + 1, Entry: entry, Reason: reason}
		}
		if !filepath.IsLocal(entry) {
			return nil, fail("is outside the directory")
		}
		info, err := os.Stat(filepath.Join(dir, entry))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fail("does not exist")
		}
		if err != nil {
			return nil, fail(err.Error())
		}
		if info.IsDir() {
			return nil, fail("is a directory")
		}

		names = append(names, entry)
	}
	return names, nil
}

// sortedNames lists the fixture files of dir in byte-wise name order
func sortedNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !domain.IsFixturePath(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
