package chaindef

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library is an ordered collection of definitions with unique ids and
// case-insensitively unique names.  It is not safe for concurrent mutation.
type Library struct {
	Chains []Definition `json:"chains" yaml:"chains"`
}

// Add validates d and appends it.
func (l *Library) Add(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	for _, existing := range l.Chains {
		if existing.ID == d.ID {
			return fmt.Errorf("%w: id %s", ErrDuplicate, d.ID)
		}
		if strings.EqualFold(existing.Name, d.Name) {
			return fmt.Errorf("%w: name %q", ErrDuplicate, d.Name)
		}
	}
	l.Chains = append(l.Chains, d)
	return nil
}

// Remove deletes the definition matching key and reports whether one was
// found.
func (l *Library) Remove(key string) bool {
	i := l.index(key)
	if i < 0 {
		return false
	}
	l.Chains = append(l.Chains[:i], l.Chains[i+1:]...)
	return true
}

// Find returns the definition whose id equals key, or whose name matches key
// ignoring case.
func (l *Library) Find(key string) (Definition, error) {
	i := l.index(key)
	if i < 0 {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return l.Chains[i], nil
}

func (l *Library) index(key string) int {
	key = strings.TrimSpace(key)
	for i, d := range l.Chains {
		if d.ID == key {
			return i
		}
	}
	for i, d := range l.Chains {
		if strings.EqualFold(d.Name, key) {
			return i
		}
	}
	return -1
}

// Decode reads a YAML library from r and validates every entry.  An empty
// document yields an empty library.
func Decode(r io.Reader) (*Library, error) {
	var raw Library
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("chaindef: decode: %w", err)
	}
	lib := &Library{}
	for _, d := range raw.Chains {
		if err := lib.Add(d); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Encode writes the library to w as YAML.
func (l *Library) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("chaindef: encode: %w", err)
	}
	return enc.Close()
}

// Load reads a library file.  A missing file yields an empty library.
func Load(path string) (*Library, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Library{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Save writes the library to path, replacing any existing file.
func (l *Library) Save(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := l.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
