package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// priceFileRe matches per-symbol source files like "table_aapl.csv" and
// captures the symbol.
var priceFileRe = regexp.MustCompile(`^table_([A-Za-z0-9.\-]+)\.csv$`)

// PriceFile describes one discovered per-symbol source file.
type PriceFile struct {
	Path    string
	Name    string
	Symbol  string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindPriceFiles finds all per-symbol price files in the directory.
// Files that do not match the table_<symbol>.csv naming convention are
// ignored. The result is sorted by symbol for deterministic iteration.
func (d *Discovery) FindPriceFiles(dir string) ([]PriceFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []PriceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		symbol, ok := SymbolFromFilename(entry.Name())
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, PriceFile{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Symbol:  symbol,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Symbol < files[j].Symbol
	})

	return files, nil
}

// SymbolFromFilename extracts the lowercase ticker symbol from a source file
// name. Returns false when the name does not follow the convention.
func SymbolFromFilename(name string) (string, bool) {
	m := priceFileRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// FindCSVFiles finds all CSV files in the specified directory
func (d *Discovery) FindCSVFiles(dir string) ([]PriceFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []PriceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		symbol, _ := SymbolFromFilename(name)
		files = append(files, PriceFile{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Symbol:  symbol,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}
