package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// manifestNames are checked in order; the first one present wins.
var manifestNames = []string{"chatooly.yaml", "chatooly.yml", "chatooly.json"}

const scriptConfig = "js/chatooly-config.js"

// Manifest is the structured metadata a tool may ship next to index.html.
// JSON manifests parse through the same YAML decoder.
type Manifest struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Category    string   `yaml:"category"`
	Version     string   `yaml:"version"`
	Tags        []string `yaml:"tags"`
}

var (
	nameRe     = scriptField("name")
	descRe     = scriptField("description")
	authorRe   = scriptField("author")
	categoryRe = scriptField("category")
	versionRe  = scriptField("version")
	tagsRe     = regexp.MustCompile(`tags:\s*\[([^\]]*)\]`)
	quotedRe   = regexp.MustCompile("['\"`]([^'\"`]+)['\"`]")
)

func scriptField(key string) *regexp.Regexp {
	return regexp.MustCompile(key + ":\\s*['\"`]([^'\"`]+)['\"`]")
}

// readMetadata overlays t with the tool's manifest, falling back to the
// browser config script. Empty values keep the defaults.
func readMetadata(dir string, t *Tool) error {
	for _, name := range manifestNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		m.apply(t)
		return nil
	}

	data, err := os.ReadFile(filepath.Join(dir, scriptConfig))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	ParseScript(string(data)).apply(t)
	return nil
}

// ParseScript pulls metadata out of a chatooly-config.js source by pattern.
func ParseScript(src string) Manifest {
	var m Manifest
	m.Name = firstMatch(nameRe, src)
	m.Description = firstMatch(descRe, src)
	m.Author = firstMatch(authorRe, src)
	m.Category = firstMatch(categoryRe, src)
	m.Version = firstMatch(versionRe, src)
	if list := tagsRe.FindStringSubmatch(src); list != nil {
		for _, q := range quotedRe.FindAllStringSubmatch(list[1], -1) {
			m.Tags = append(m.Tags, q[1])
		}
	}
	return m
}

func firstMatch(re *regexp.Regexp, src string) string {
	if m := re.FindStringSubmatch(src); m != nil {
		return m[1]
	}
	return ""
}

func (m Manifest) apply(t *Tool) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&t.Name, m.Name)
	set(&t.Description, m.Description)
	set(&t.Author, m.Author)
	set(&t.Category, m.Category)
	set(&t.Version, m.Version)
	if len(m.Tags) > 0 {
		t.Tags = m.Tags
	}
}
