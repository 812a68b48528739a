// Package publish writes submitted tools into the tools directory under a
// unique URL-safe name.
package publish

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/chatooly/internal/logging"
)

// IndexFile must be present in every submission.
const IndexFile = "index.html"

// Request is the body of a publish call. Files maps a relative path to its
// content: plain text, or a base64 data URI for binary files.
type Request struct {
	ToolName string            `json:"toolName"`
	Metadata map[string]any    `json:"metadata"`
	Files    map[string]string `json:"files"`
}

// Result describes a published tool.
type Result struct {
	Success       bool           `json:"success"`
	URL           string         `json:"url"`
	ActualName    string         `json:"actualName"`
	RequestedName string         `json:"requestedName"`
	PublishedAt   time.Time      `json:"publishedAt"`
	Message       string         `json:"message"`
	Metadata      map[string]any `json:"metadata"`
}

var dataURI = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// Service publishes into ToolsDir. Publishes are serialized so two requests
// for the same name cannot pick the same slug.
type Service struct {
	ToolsDir string
	BaseURL  string
	Log      *log.Logger
	Now      func() time.Time

	mu sync.Mutex
}

func NewService(toolsDir, baseURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		ToolsDir: toolsDir,
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Log:      logger,
		Now:      time.Now,
	}
}

// Validate checks a request without touching the filesystem.
func Validate(req *Request) error {
	switch {
	case req.ToolName == "":
		return errNameRequired
	case req.Files == nil:
		return errFilesRequired
	case req.Files[IndexFile] == "":
		return errIndexRequired
	case Slugify(req.ToolName) == "":
		return errEmptySlug
	}
	for name := range req.Files {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return badRequest("invalid file path: %s", name)
		}
	}
	return nil
}

// Publish validates req, picks a free slug and writes every file.
func (s *Service) Publish(ctx context.Context, req *Request) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	contents := decodeFiles(req.Files)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slug, err := UniqueSlug(s.ToolsDir, Slugify(req.ToolName))
	if err != nil {
		return nil, fmt.Errorf("publish: pick name: %w", err)
	}
	dir := filepath.Join(s.ToolsDir, slug)
	if err := writeFiles(dir, contents); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	s.Log.Info("tool published", "requested", req.ToolName, "slug", slug, "files", len(contents))

	meta := make(map[string]any, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta["slug"] = slug

	msg := "Tool published successfully!"
	if slug != req.ToolName {
		msg = fmt.Sprintf("Tool published as %q (name was adjusted for availability)", slug)
	}
	return &Result{
		Success:       true,
		URL:           s.BaseURL + "/tools/" + slug,
		ActualName:    slug,
		RequestedName: req.ToolName,
		PublishedAt:   s.Now().UTC(),
		Message:       msg,
		Metadata:      meta,
	}, nil
}

// decodeFiles turns base64 data URIs into bytes; every other value is kept
// as text, including data: strings whose payload does not decode.
func decodeFiles(files map[string]string) map[string][]byte {
	out := make(map[string][]byte, len(files))
	for name, content := range files {
		if m := dataURI.FindStringSubmatch(content); m != nil {
			if b, ok := decodeBase64(m[2]); ok {
				out[name] = b
				continue
			}
		}
		out[name] = []byte(content)
	}
	return out
}

// base64Encodings are tried in order; padded standard first.
var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(payload string) ([]byte, bool) {
	for _, enc := range base64Encodings {
		if b, err := enc.DecodeString(payload); err == nil {
			return b, true
		}
	}
	return nil, false
}

func writeFiles(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
