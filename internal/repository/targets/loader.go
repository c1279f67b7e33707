package targets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
)

// Format is the encoding of a target-field file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml and JSON for everything else.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads target fields from path.
// File and decode failures return *LoadError; an invalid record returns *RecordError
// wrapping *field.ValidationError.
func Load(path string) ([]field.Field, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	fields, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return fields, nil
}

// Decode parses target fields from r in the given format.
func Decode(r io.Reader, format Format) ([]field.Field, error) {
	rows, err := decodeRows(r, format)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	fields := make([]field.Field, len(rows))
	for i, row := range rows {
		f, err := row.toDomain()
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		fields[i] = f
	}
	return fields, nil
}

// Encode writes fields as an indented JSON array in the target-file shape.
func Encode(w io.Writer, fields []field.Field) error {
	rows := make([]fieldRow, len(fields))
	for i, f := range fields {
		rows[i] = rowFromDomain(f)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode target fields: %w", err)
	}
	return nil
}

func decodeRows(r io.Reader, format Format) ([]fieldRow, error) {
	var rows []fieldRow

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty document")
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&rows); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty document")
			}
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if dec.More() {
			return nil, errors.New("decode json: trailing data after array")
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if rows == nil {
		return nil, errors.New("expected an array of target fields")
	}
	return rows, nil
}
