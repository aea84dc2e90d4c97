package appconfig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// isInDir reports whether path names a file directly inside dir.
func isInDir(path, dir string) bool {
	return filepath.Dir(path) == filepath.Clean(dir)
}

// readFile reads a configuration file from disk, rejecting directories and
// special files.
func readFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// writeFile writes a configuration file, creating parent directories as
// needed.
func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// copyFile copies src to dst, used for backups before overwrite.
func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // G304: see above.
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		_ = out.Close()

		return fmt.Errorf("copy: %w", err)
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("close backup: %w", err)
	}

	return nil
}
