// Package config reads the backup configuration: which wikis to mirror, with which bot
// credentials, plus the run settings that can also be given as flags.
//
// The file is JSON by default.  Files ending in .yaml or .yml are read as YAML.  Wiki sources keep
// the order they're written in.
//
// Decoding is strict in both formats: a key this package doesn't know, at the top level or inside
// a wiki entry, fails the load and the error names the key.  Configs written for older releases
// that carry keys since dropped must have those keys removed before they load.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// ErrNoSources means the config names no wiki to back up.
var ErrNoSources = errors.New("config: no wiki sources configured")

// Source is one wiki to back up.
type Source struct {
	// Key is the name of the entry under "wiki"; it's also the directory the snapshots go to.
	Key string `json:"-" yaml:"-"`

	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	BotName     string `json:"botName" yaml:"botName"`
	BotPassword string `json:"botPassword" yaml:"botPassword"`
}

// DisplayName is Name, or Key when the config left it out.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

// File mirrors the config file.  Fields with a flag tag are bound to the cobra flag of that name
// when the flag isn't given on the command line; pointers tell "unset" apart from the zero value.
type File struct {
	Wiki Sources `json:"wiki" yaml:"wiki"`

	BacklogDay      *int     `json:"backlog_day" yaml:"backlog_day" flag:"backlog-day"`
	ExcludePrefixes []string `json:"exclude_prefixes" yaml:"exclude_prefixes" flag:"exclude-prefix"`
	Store           string   `json:"store" yaml:"store" flag:"store"`
	LogFile         string   `json:"log_file" yaml:"log_file" flag:"log-file"`
	Locale          string   `json:"locale" yaml:"locale" flag:"locale"`
	WriteMarkdown   *bool    `json:"write_markdown" yaml:"write_markdown" flag:"write-markdown"`
	WithVCR         *bool    `json:"with_vcr" yaml:"with_vcr" flag:"with-vcr"`
	Progress        *bool    `json:"progress" yaml:"progress" flag:"progress"`
}

// Load reads and decodes the config file at path.  It doesn't insist on any sources being present;
// see Validate.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: error reading config file: %w", err)
	}

	return Parse(raw, isYAML(path))
}

// Parse decodes raw as YAML or JSON.
func Parse(raw []byte, asYAML bool) (File, error) {
	var f File

	if asYAML {
		// I'd like to bark if a user sets a key we don't recognise:
		if err := yaml.UnmarshalStrict(raw, &f); err != nil {
			return File{}, fmt.Errorf("config: issue parsing YAML config: %w", err)
		}
		return f, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("config: issue parsing JSON config: %w", err)
	}

	return f, nil
}

// Validate checks what a backup run needs: at least one source, each complete, each with a key
// that's usable as a directory name.
func (f File) Validate() error {
	if len(f.Wiki) == 0 {
		return ErrNoSources
	}

	for _, s := range f.Wiki {
		if err := validKey(s.Key); err != nil {
			return err
		}
		if s.URL == "" {
			return fmt.Errorf("config: wiki %q has no url", s.Key)
		}
		if s.BotName == "" || s.BotPassword == "" {
			return fmt.Errorf("config: wiki %q needs botName and botPassword", s.Key)
		}
	}

	// 0 is today
	if f.BacklogDay != nil && *f.BacklogDay < 0 {
		return fmt.Errorf("config: backlog_day can't be negative, got %d", *f.BacklogDay)
	}

	return nil
}

// Source looks up a source by key.
func (f File) Source(key string) (Source, bool) {
	for _, s := range f.Wiki {
		if s.Key == key {
			return s, true
		}
	}
	return Source{}, false
}

// Names lists the display names of all sources, in order.
func (f File) Names() []string {
	names := make([]string, 0, len(f.Wiki))
	for _, s := range f.Wiki {
		names = append(names, s.DisplayName())
	}
	return names
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("config: wiki key %q can't be used as a directory name", key)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
