package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source is where an effective setting came from.
type Source struct {
	Kind   SourceKind
	Name   string // builtin palette or "defaults"
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config   *Config
	Sources  map[string]Source // setting path -> file position of the winning value
	Files    []string          // files read, includes before their includer
	Path     string            // top-level path, whether or not it exists
	Warnings []Warning         // clamped or defaulted settings, with their source
}

// ConfigDirName is the directory under $XDG_CONFIG_HOME (or ~/.config).
const ConfigDirName = "fluentdeco"

func DefaultConfigPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, ConfigDirName, "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, "config.yaml"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load keeping the per-setting sources.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the
// defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	top := layer{sources: map[string]Source{}}
	if exists, err := pathExists(path); err != nil {
		return nil, err
	} else if exists {
		l := &loader{seen: map[string]bool{}}
		if top, err = l.load(path); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(top.raw)
	if err != nil {
		return nil, attachSourceContext(err, top.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, top.sources)
	}

	warnings := cfg.Warnings()
	for i := range warnings {
		warnings[i].Source = top.sources[warnings[i].Path]
	}

	return &LoadResult{
		Config:   cfg,
		Sources:  top.sources,
		Files:    top.files,
		Path:     path,
		Warnings: warnings,
	}, nil
}

// layer is one file merged over everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// loader follows includes depth first. A file reached twice is merged
// once; a file reached from itself is an error.
type loader struct {
	seen  map[string]bool
	chain []string
}

func (l *loader) load(path string) (layer, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return layer{}, err
	}
	for _, p := range l.chain {
		if p == canon {
			return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), canon)
		}
	}
	if l.seen[canon] {
		return layer{sources: map[string]Source{}}, nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return layer{}, fmt.Errorf("%s: %w", canon, err)
	}
	own := collectSources(&doc, canon)

	out := layer{sources: map[string]Source{}}
	l.chain = append(l.chain, canon)
	for i, inc := range raw.Include {
		paths, err := expandInclude(canon, inc)
		if err != nil {
			src := includeSource(own, i)
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", src.File, src.Line, src.Column, inc, err)
		}
		for _, p := range paths {
			sub, err := l.load(p)
			if err != nil {
				return layer{}, err
			}
			out.overlay(sub)
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	for p := range own {
		if p == "include" || strings.HasPrefix(p, "include.") {
			delete(own, p)
		}
	}
	raw.Include = nil
	out.overlay(layer{raw: raw, sources: own, files: []string{canon}})
	return out, nil
}

// overlay merges top over l. An exceptions list in top replaces the whole
// list, so element sources from below are dropped with it.
func (l *layer) overlay(top layer) {
	l.raw = l.raw.merge(top.raw)
	if top.raw.Exceptions != nil {
		for p := range l.sources {
			if p == "exceptions" || strings.HasPrefix(p, "exceptions.") {
				delete(l.sources, p)
			}
		}
	}
	for p, src := range top.sources {
		l.sources[p] = src
	}
	l.files = append(l.files, top.files...)
}

func includeSource(sources map[string]Source, i int) Source {
	if src, ok := sources["include."+strconv.Itoa(i)]; ok {
		return src
	}
	return sources["include"]
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include entry to files. A directory expands
// to its .yaml and .yml files in name order.
func expandInclude(baseFile string, include string) ([]string, error) {
	path, err := resolvePathRelativeToFile(baseFile, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(path, ent.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func resolvePathRelativeToFile(baseFile string, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		include = filepath.Join(home, strings.TrimPrefix(include, "~"))
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(baseFile), include), nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// collectSources maps every setting path in doc to its value's position.
// Sequence items get their index as a path element.
func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		switch n.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				path := joinPath(prefix, n.Content[i].Value)
				out[path] = nodeSource(n.Content[i+1], file)
				walk(n.Content[i+1], path)
			}
		case yaml.SequenceNode:
			for i, item := range n.Content {
				path := joinPath(prefix, strconv.Itoa(i))
				out[path] = nodeSource(item, file)
				walk(item, path)
			}
		}
	}
	walk(node, "")
	return out
}

func nodeSource(node *yaml.Node, file string) Source {
	return Source{Kind: SourceFile, File: file, Line: node.Line, Column: node.Column}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
