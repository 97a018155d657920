package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
)

const DefaultManifest = "fonts.json"

var (
	ErrConfigNotFound = errors.New("config not found")
	ErrConfigParse    = errors.New("config parse error")
)

// ParseError is returned when a manifest is not a JSON object of URL arrays.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrConfigParse }

// Font is a single manifest entry.
type Font struct {
	Name string
	URLs []string
}

// Manifest lists fonts in the order their keys appear in the file.
type Manifest []Font

// Names returns font names in manifest order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for _, f := range m {
		names = append(names, f.Name)
	}
	return names
}

// LoadManifest looks for the manifest in the parent of the working directory,
// then in the working directory itself.
func LoadManifest(name string) (Manifest, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	return LoadManifestFrom(wd, name)
}

// LoadManifestFrom is LoadManifest relative to dir. An absolute name is used as is.
func LoadManifestFrom(dir string, name string) (Manifest, string, error) {
	path, err := locate(dir, name)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, path, &ParseError{Path: path, Err: err}
	}
	return m, path, nil
}

func locate(dir string, name string) (string, error) {
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = []string{name}
	} else {
		candidates = []string{
			filepath.Join(filepath.Dir(dir), name),
			filepath.Join(dir, name),
		}
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in current and parent dir", ErrConfigNotFound, name)
}

// ParseManifest decodes a JSON object of font name to URL array.
// Duplicate keys keep their first position and take the last value.
func ParseManifest(r io.Reader) (Manifest, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var m Manifest
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name := tok.(string) // object keys are always strings

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		urls, err := toURLs(raw)
		if err != nil {
			return nil, fmt.Errorf("font %q: %w", name, err)
		}
		if i, ok := index[name]; ok {
			m[i].URLs = urls
			continue
		}
		index[name] = len(m)
		m = append(m, Font{Name: name, URLs: urls})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level object")
	}
	return m, nil
}

// toURLs accepts scalars as URLs; anything that is not a .zip or .ttf is
// skipped later with a warning.
func toURLs(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of URLs, got %T", raw)
	}
	urls := make([]string, 0, len(list))
	for _, v := range list {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("invalid URL entry: %w", err)
		}
		urls = append(urls, s)
	}
	return urls, nil
}
