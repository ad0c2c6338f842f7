// Package files manages the app-private storage for imported spreadsheets
// and product photos.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Kind classifies stored files.
type Kind string

const (
	KindSpreadsheet Kind = "spreadsheet"
	KindPhoto       Kind = "photo"
	KindOther       Kind = "other"
)

var (
	spreadsheetExts = map[string]bool{".xlsx": true, ".xls": true}
	photoExts       = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}
)

// Manager owns the app data directory and its excel/ and photos/ subdirectories.
type Manager struct {
	root string
}

// NewManager ensures the directory layout under root exists.
func NewManager(root string) (*Manager, error) {
	m := &Manager{root: root}
	for _, dir := range []string{root, m.ExcelDir(), m.PhotosDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return m, nil
}

// Root returns the data directory.
func (m *Manager) Root() string {
	return m.root
}

// ExcelDir returns the stored-spreadsheet directory.
func (m *Manager) ExcelDir() string {
	return filepath.Join(m.root, "excel")
}

// PhotosDir returns the stored-photo directory.
func (m *Manager) PhotosDir() string {
	return filepath.Join(m.root, "photos")
}

// Classify maps a file name to its Kind by extension.
func Classify(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case spreadsheetExts[ext]:
		return KindSpreadsheet
	case photoExts[ext]:
		return KindPhoto
	default:
		return KindOther
	}
}

// SaveFile copies src into the directory for its kind under a collision-free
// name that keeps the original extension. It returns the stored path.
func (m *Manager) SaveFile(src io.Reader, origName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	var dir string
	switch Classify(origName) {
	case KindSpreadsheet:
		dir = m.ExcelDir()
	case KindPhoto:
		dir = m.PhotosDir()
	default:
		dir = m.root
	}

	name := fmt.Sprintf("uploaded_%s%s", uuid.New().String(), ext)
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to copy into %s: %w", dst, err)
	}
	return dst, nil
}

// ImportFolder copies every image file found directly inside srcDir into the
// photos directory under its original name. Non-image entries are skipped
// and per-file copy failures are logged and skipped.
func (m *Manager) ImportFolder(srcDir string) (int, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read folder %s: %w", srcDir, err)
	}

	copied := 0
	for _, entry := range entries {
		if entry.IsDir() || Classify(entry.Name()) != KindPhoto {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(m.PhotosDir(), entry.Name())
		if err := copyFile(src, dst); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping photo")
			continue
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// SpreadsheetFiles lists stored spreadsheets, newest first.
func (m *Manager) SpreadsheetFiles() ([]string, error) {
	return m.listKind(m.ExcelDir(), KindSpreadsheet)
}

// PhotoFiles lists stored photos.
func (m *Manager) PhotoFiles() ([]string, error) {
	return m.listKind(m.PhotosDir(), KindPhoto)
}

func (m *Manager) listKind(dir string, kind Kind) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || Classify(entry.Name()) != kind {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	sort.Slice(paths, func(i, j int) bool {
		fi, errI := os.Stat(paths[i])
		fj, errJ := os.Stat(paths[j])
		if errI != nil || errJ != nil {
			return paths[i] < paths[j]
		}
		return fi.ModTime().After(fj.ModTime())
	})
	return paths, nil
}

// CurrentSpreadsheet returns the most recently stored spreadsheet, or "".
func (m *Manager) CurrentSpreadsheet() string {
	paths, err := m.SpreadsheetFiles()
	if err != nil || len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// ResolvePhoto maps a product's photo file name to its stored path. When the
// photo is missing the bare name comes back so the caller can decide how to
// render the gap.
func (m *Manager) ResolvePhoto(name string) string {
	if name == "" {
		return ""
	}
	path := filepath.Join(m.PhotosDir(), filepath.Base(name))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return name
}

// HumanSize renders a byte count for display.
func HumanSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%d KB", bytes/1024)
	default:
		return fmt.Sprintf("%d MB", bytes/(1024*1024))
	}
}
