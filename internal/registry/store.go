package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"taglog/internal/fileutil"
)

// Load reads the mapping stored at path. A missing file yields an empty
// mapping; unreadable content yields ErrStorageFormat.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s: expected a JSON object", ErrStorageFormat, path)
	}

	mapping := map[string]string{}
	if err := json.Unmarshal(trimmed, &mapping); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorageFormat, path, err)
	}
	return mapping, nil
}

// Save serializes mapping and atomically replaces the file at path.
func Save(path string, mapping map[string]string) error {
	if mapping == nil {
		mapping = map[string]string{}
	}
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrStorageWrite, err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStorageWrite, path, err)
	}
	return nil
}
