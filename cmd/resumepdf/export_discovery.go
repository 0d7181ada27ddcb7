package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must be .html, .htm, .yaml, .yml or .json")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

var (
	htmlExtensions   = []string{".html", ".htm"}
	resumeExtensions = []string{".yaml", ".yml", ".json"}
	inputExtensions  = append(append([]string{}, htmlExtensions...), resumeExtensions...)
)

// FileToExport is one input and where its export goes.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds the inputs under inputPath. A directory is walked
// recursively and files with other extensions are skipped.
func discoverFiles(inputPath, outputDir string, format resumepdf.Format) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	ext := format.Extension()

	if !info.IsDir() {
		if !fileutil.HasExtension(inputPath, inputExtensions...) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		out := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileToExport{{InputPath: inputPath, OutputPath: out}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.HasExtension(path, inputExtensions...) {
			return nil
		}
		out := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileToExport{InputPath: path, OutputPath: out})
		return nil
	})
	return files, err
}

// resolveOutputPath places the export next to the input, under outputDir
// (keeping the tree below baseInputDir), or at outputDir itself when it
// already ends in ext.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	base := filepath.Base(fileutil.ReplaceExtension(inputPath, ext))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	if strings.EqualFold(filepath.Ext(outputDir), ext) {
		return outputDir
	}
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), base)
		}
	}
	return filepath.Join(outputDir, base)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > resumepdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, resumepdf.MaxPoolSize)
	}
	return nil
}
