package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"
)

// formatSource formats the assembled module with goimports, which also drops
// unused imports. On failure the raw text is written to path.error for
// debugging.
func formatSource(path string, src []byte) ([]byte, error) {
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		// Errors intentionally ignored as we're already in error state.
		debugPath := path + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, src, 0o644)
		return nil, NewAssemblyError(path, fmt.Sprintf("format (unformatted written to %s)", debugPath), err)
	}
	return formatted, nil
}

// writeModule replaces the file at path with src. An existing file is removed
// first and the new content is written in one call, so a partially written
// module is never left behind by a previous run.
func writeModule(log *zap.Logger, path string, src []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewAssemblyError(path, "create output directory", err)
	}
	switch err := os.Remove(path); {
	case err == nil:
		log.Info("old module found; removing", zap.String("path", path))
	case !errors.Is(err, fs.ErrNotExist):
		return NewAssemblyError(path, "remove old module", err)
	}
	// A stale debug file from a failed run would be misleading.
	_ = os.Remove(path + ".error")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return NewAssemblyError(path, "write module", err)
	}
	return nil
}

// discardModule removes the module written by a run that failed afterwards.
func discardModule(log *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to discard module", zap.String("path", path), zap.Error(err))
	}
}
