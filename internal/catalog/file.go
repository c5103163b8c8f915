package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource loads a catalog from a YAML document shaped like Data.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode parses a YAML catalog. Unknown fields are rejected so a typo in
// a hand-written catalog does not silently drop data.
func Decode(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var data Data
	if err := dec.Decode(&data); err != nil {
		if err == io.EOF {
			return New(Data{})
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(data)
}

// Encode writes c as YAML.
func Encode(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Data()); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile exports c to path, creating parent directories.
func WriteFile(path string, c *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
