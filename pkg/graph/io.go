package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFor picks a document format from a file extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "cannot infer format of %s (want .json, .yaml or .yml)", path)
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph encodes a graph in the given format.
func MarshalGraph(g Graph, format string) ([]byte, error) {
	return marshal(g, format)
}

// UnmarshalGraph decodes a graph in the given format.
func UnmarshalGraph(data []byte, format string) (Graph, error) {
	var g Graph
	if err := unmarshal(data, format, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// ReadGraph decodes a graph from r.
func ReadGraph(r io.Reader, format string) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalGraph(data, format)
}

// ReadGraphFile reads a scene file, picking the format from its extension.
func ReadGraphFile(path string) (Graph, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Graph{}, err
	}
	data, err := readFile(path)
	if err != nil {
		return Graph{}, err
	}
	return UnmarshalGraph(data, format)
}

// WriteGraphFile writes g to path, picking the format from its extension.
func WriteGraphFile(g Graph, path string) error {
	return writeFile(g, path)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout encodes a layout in the given format.
func MarshalLayout(l Layout, format string) ([]byte, error) {
	return marshal(l, format)
}

// UnmarshalLayout decodes a layout in the given format.
func UnmarshalLayout(data []byte, format string) (Layout, error) {
	var l Layout
	if err := unmarshal(data, format, &l); err != nil {
		return Layout{}, err
	}
	for i, r := range l.Routes {
		if len(r.Points) < 4 {
			return Layout{}, errs.New(errs.ErrCodeInvalidFormat,
				"route %d (%s->%s) has %d control points, want at least 4", i, r.From, r.To, len(r.Points))
		}
	}
	return l, nil
}

// WriteLayout encodes l to w.
func WriteLayout(l Layout, w io.Writer, format string) error {
	data, err := MarshalLayout(l, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadLayoutFile reads a layout document, picking the format from its extension.
func ReadLayoutFile(path string) (Layout, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Layout{}, err
	}
	data, err := readFile(path)
	if err != nil {
		return Layout{}, err
	}
	return UnmarshalLayout(data, format)
}

// WriteLayoutFile writes l to path, picking the format from its extension.
func WriteLayoutFile(l Layout, path string) error {
	return writeFile(l, path)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func marshal(v any, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		return data, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported document format: %q", format)
	}
}

func unmarshal(data []byte, format string, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported document format: %q", format)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeFile(v any, path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := marshal(v, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
