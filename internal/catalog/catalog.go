// Package catalog discovers the published tools under a tools directory and
// reads their metadata.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/chatooly/internal/logging"
)

const (
	DefaultDescription = "A Chatooly design tool"
	DefaultAuthor      = "Anonymous"
	DefaultCategory    = "tools"
	DefaultVersion     = "1.0.0"
)

// Tool is one entry of the catalog.
type Tool struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Version     string    `json:"version"`
	Tags        []string  `json:"tags,omitempty"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// excluded directory names under the tools dir.
var excluded = map[string]bool{"staging": true, "live": true}

// Scanner walks a tools directory. The zero Log discards warnings.
type Scanner struct {
	Dir string
	Log *log.Logger
}

// Discover lists the tools in dir, newest first.
func Discover(dir string) ([]Tool, error) {
	return (&Scanner{Dir: dir}).Discover()
}

func (s *Scanner) logger() *log.Logger {
	if s.Log == nil {
		return logging.Discard()
	}
	return s.Log
}

// Discover returns every immediate subdirectory holding an index.html,
// skipping staging, live and dot-prefixed names. A missing directory is an
// empty catalog.
func (s *Scanner) Discover() ([]Tool, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger().Warn("tools directory not found", "dir", s.Dir)
		return []Tool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", s.Dir, err)
	}

	tools := []Tool{}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || excluded[name] {
			continue
		}
		dir := filepath.Join(s.Dir, name)
		info, err := os.Stat(filepath.Join(dir, "index.html"))
		if err != nil || info.IsDir() {
			continue
		}
		t := defaults(name)
		t.CreatedAt = info.ModTime().UTC()
		if err := readMetadata(dir, &t); err != nil {
			s.logger().Warn("could not read tool metadata", "slug", name, "err", err)
		}
		tools = append(tools, t)
	}

	sort.SliceStable(tools, func(i, j int) bool {
		if !tools[i].CreatedAt.Equal(tools[j].CreatedAt) {
			return tools[i].CreatedAt.After(tools[j].CreatedAt)
		}
		return tools[i].Slug < tools[j].Slug
	})
	s.logger().Debug("discovered tools", "count", len(tools))
	return tools, nil
}

func defaults(slug string) Tool {
	return Tool{
		Name:        TitleCase(slug),
		Slug:        slug,
		Description: DefaultDescription,
		Author:      DefaultAuthor,
		Category:    DefaultCategory,
		Version:     DefaultVersion,
		URL:         "/tools/" + slug,
	}
}

// TitleCase turns hyphens into spaces and upper-cases the first letter of
// every word.
func TitleCase(slug string) string {
	b := []byte(strings.ReplaceAll(slug, "-", " "))
	prevWord := false
	for i, c := range b {
		word := c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		if word && !prevWord && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		prevWord = word
	}
	return string(b)
}
