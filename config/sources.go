package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"
)

// Sources is the "wiki" mapping, kept in file order: sources are backed up one after another in
// the order they're configured.
type Sources []Source

func (s *Sources) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("config: \"wiki\" must be an object of sources, got %v", tok)
	}

	sources := Sources{}
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("config: unexpected key %v in \"wiki\"", tok)
		}
		if seen[key] {
			return fmt.Errorf("config: wiki %q configured twice", key)
		}
		seen[key] = true

		var src Source
		if err := dec.Decode(&src); err != nil {
			return fmt.Errorf("config: wiki %q: %w", key, err)
		}
		src.Key = key
		sources = append(sources, src)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = sources
	return nil
}

func (s *Sources) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// once for the order...
	var order yaml.MapSlice
	if err := unmarshal(&order); err != nil {
		return err
	}
	// ...and once for the values.
	var byKey map[string]Source
	if err := unmarshal(&byKey); err != nil {
		return err
	}

	sources := make(Sources, 0, len(order))
	seen := map[string]bool{}
	for _, item := range order {
		key, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("config: wiki key %v is not a string", item.Key)
		}
		if seen[key] {
			return fmt.Errorf("config: wiki %q configured twice", key)
		}
		seen[key] = true

		src := byKey[key]
		src.Key = key
		sources = append(sources, src)
	}

	*s = sources
	return nil
}
