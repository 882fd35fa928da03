// Package persistence loads and saves catalog record files.
//
// A record file holds a top-level array of objects, encoded as JSON or YAML.
// The format is chosen by file extension; anything other than .yaml or .yml
// is treated as JSON.
package persistence

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/gofrs/flock"

	"github.com/agentstation/modelmerge/pkg/constants"
	"github.com/agentstation/modelmerge/pkg/errors"
	"github.com/agentstation/modelmerge/pkg/records"
)

// Format is a record file encoding.
type Format string

const (
	// FormatJSON is a JSON array of objects.
	FormatJSON Format = "json"
	// FormatYAML is a YAML sequence of mappings.
	FormatYAML Format = "yaml"
)

// FormatFor returns the format implied by the path's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads the records stored at path.
func Load(path string) ([]records.Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapIO("read", path, errors.NewNotFoundError("record file", path))
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return Decode(data, FormatFor(path), path)
}

// Decode parses data in the given format. name is used in error messages.
func Decode(data []byte, format Format, name string) ([]records.Record, error) {
	var recs []records.Record

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &recs); err != nil {
			return nil, errors.WrapParse(string(format), name, err)
		}
	default:
		// Numbers stay json.Number so integers and decimals round-trip unchanged.
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&recs); err != nil {
			return nil, errors.WrapParse(string(FormatJSON), name, err)
		}
	}

	if recs == nil {
		recs = []records.Record{}
	}
	return recs, nil
}

// Encode renders recs in the given format.
func Encode(recs []records.Record, format Format) ([]byte, error) {
	if recs == nil {
		recs = []records.Record{}
	}

	switch format {
	case FormatYAML:
		out := make([]any, len(recs))
		for i, rec := range recs {
			out[i] = yamlValue(map[string]any(rec))
		}
		return yaml.MarshalWithOptions(out, yaml.Indent(2), yaml.IndentSequence(false))
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(recs); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// Save writes recs to path, replacing any existing file. The file is written
// to a temporary sibling first and moved into place. A hidden lock file next
// to path keeps concurrent runs from writing the same output.
func Save(path string, recs []records.Record) error {
	format := FormatFor(path)
	data, err := Encode(recs, format)
	if err != nil {
		return errors.WrapParse(string(format), path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return errors.WrapIO("lock", path, err)
	}
	if !ok {
		return errors.NewIOError("lock", path, errors.ErrLocked)
	}
	defer func() { _ = lock.Unlock() }()

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("chmod", path, err)
	}

	// Atomically move temp file to final location
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("move", path, err)
	}
	return nil
}

// LockPath returns the lock file guarding writes to path.
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// yamlValue converts json.Number leaves into native numbers so YAML output
// does not quote them.
func yamlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = yamlValue(inner)
		}
		return out
	case records.Record:
		return yamlValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = yamlValue(inner)
		}
		return out
	default:
		return v
	}
}
