package inventory

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/modelcheck/internal/logger"
)

// FileDateFormat is the timestamp layout used in inventory CSV files.
const FileDateFormat = "2006-01-02 15:04:05"

// Scanner walks a models directory and builds one inventory record per file
// whose extension is in the configured set.
type Scanner struct {
	extensions map[string]bool
	logger     *logger.Logger
}

// NewScanner creates a scanner for the given model file extensions
// (".safetensors", ".ckpt", ...). Extension matching is case-insensitive.
func NewScanner(extensions []string, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.NewDefault()
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Scanner{extensions: exts, logger: log}
}

// Scan walks root and returns records in walk order. Filename is the
// forward-slash relative path below root; Directory is the absolute
// directory containing the file. An unreadable subtree aborts the scan.
func (s *Scanner) Scan(root string) ([]ModelRecord, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root: %w", err)
	}

	var records []ModelRecord
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("failed to scan %s: %w", p, walkErr)
		}
		if d.IsDir() {
			return nil
		}
		if !s.extensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return fmt.Errorf("failed to derive relative path for %s: %w", p, err)
		}

		records = append(records, ModelRecord{
			Filename:  filepath.ToSlash(rel),
			Directory: filepath.Dir(p),
			FileDate:  info.ModTime().Format(FileDateFormat),
			SizeBytes: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Scanned model directory",
		"root", absRoot,
		"files", len(records),
	)
	return records, nil
}
