package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = ".checksum.yaml"

// LoadConfig reads the settings file at p. A missing file yields an empty
// config unless the caller asked for it explicitly.
func LoadConfig(p string, explicit bool) (*Config, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &Config{}, nil
		}
		return nil, err
	}
	var c Config
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	if c.Kind != "" && strings.ToLower(c.Kind) != "checksumconfig" {
		return nil, fmt.Errorf("%s: not a ChecksumConfig kind", p)
	}
	for _, pat := range c.Spec.Exclude {
		if _, err := path.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("%s: exclude %q: %w", p, pat, err)
		}
	}
	c.Path = p
	return &c, nil
}

// Excluder turns path patterns into a predicate over dotted member paths.
// Patterns use path.Match syntax.
func Excluder(patterns []string) func(string) bool {
	if len(patterns) == 0 {
		return nil
	}
	return func(p string) bool {
		for _, pat := range patterns {
			if ok, _ := path.Match(pat, p); ok {
				return true
			}
		}
		return false
	}
}

// DetectFormat picks the decoder from the file extension; anything unknown
// is read as YAML, which also accepts JSON.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatYAML
}

// LoadDocument reads the file at name, or stdin for "-".
func LoadDocument(name string, stdin io.Reader) (any, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(b, DetectFormat(name))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return doc, nil
}

func DecodeDocument(b []byte, f Format) (any, error) {
	var doc any
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		doc = numbers(doc)
	case FormatTOML:
		m := map[string]any{}
		if err := toml.Unmarshal(b, &m); err != nil {
			return nil, err
		}
		doc = m
	default:
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// numbers replaces json.Number with the int64 or float64 the YAML and TOML
// decoders would produce for the same text, so that 1.50 in JSON and YAML
// hash alike. Numbers beyond float64 range keep their source text.
func numbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return lo.MapValues(t, func(e any, _ string) any { return numbers(e) })
	case []any:
		return lo.Map(t, func(e any, _ int) any { return numbers(e) })
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
	}
	return v
}
