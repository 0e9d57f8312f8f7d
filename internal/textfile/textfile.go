// Package textfile moves exported user text between a Store and files on
// disk. It owns the file-system checks; the Store only sees text.
package textfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heysubinoy/pyaztext/internal/usertext"
)

var (
	ErrNoPath       = errors.New("no file path provided")
	ErrBadExtension = errors.New("file path must end with .csv or .txt")
	ErrNotFound     = errors.New("file not found")
)

// ValidatePath accepts non-empty paths ending in .csv or .txt, in any case.
func ValidatePath(path string) error {
	if path == "" {
		return ErrNoPath
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrBadExtension, path)
	}
}

// Export writes the store to path when fire is true. An empty store is
// reported in the result and nothing is written.
func Export(s *usertext.Store, path string, fire bool) (usertext.Result, error) {
	if err := ValidatePath(path); err != nil {
		return usertext.Result{}, err
	}
	n := s.Len()
	if n == 0 {
		return usertext.Result{Summary: "No document user text found."}, nil
	}
	if !fire {
		return usertext.Result{Summary: "Ready to export.", Affected: n}, nil
	}

	if err := os.WriteFile(path, []byte(s.Export()+"\n"), 0o644); err != nil {
		return usertext.Result{}, fmt.Errorf("export %s: %w", path, err)
	}
	return usertext.Result{
		Summary:  fmt.Sprintf("Exported %d items to CSV file: %s", n, path),
		Affected: n,
		Fired:    true,
	}, nil
}

// Check validates path and verifies that the file exists.
func Check(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// Read returns the contents of a checked file.
func Read(path string) (string, error) {
	if err := Check(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	return string(data), nil
}

// Import reads path into the store when fire is true. Malformed lines are
// returned in Result.Failed.
func Import(s *usertext.Store, path string, fire bool) (usertext.Result, error) {
	if err := Check(path); err != nil {
		return usertext.Result{}, err
	}
	if !fire {
		return usertext.Result{Summary: "Ready to import."}, nil
	}

	text, err := Read(path)
	if err != nil {
		return usertext.Result{}, err
	}
	res, err := usertext.Run(s, usertext.ImportText{Text: text}, true)
	if err != nil {
		return res, err
	}
	res.Summary = fmt.Sprintf("Imported %d item(s) from file: %s", res.Affected, path)
	if len(res.Failed) > 0 {
		res.Summary += fmt.Sprintf(". Failed to import %d line(s).", len(res.Failed))
	}
	return res, nil
}
