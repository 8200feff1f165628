// Package statics writes static delivery artifacts for tenants running in
// static-page mode. Tenants serving dynamically use the Noop writer.
package statics

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// Writer is the static artifact contract consumed by the slug service
type Writer interface {
	WritePage(ctx context.Context, page *models.Page) error
	WriteRedirect(ctx context.Context, fromPath, toPath string) error
	RemovePage(ctx context.Context, urlPath string) error
}

// FileWriter materializes artifacts under a root directory, one HTML file
// per slug.
type FileWriter struct {
	root string
	log  zerolog.Logger
}

// NewFileWriter creates a new FileWriter rooted at dir
func NewFileWriter(dir string, log zerolog.Logger) *FileWriter {
	return &FileWriter{
		root: dir,
		log:  log.With().Str("component", "statics").Logger(),
	}
}

// WritePage writes the page snapshot as a static HTML artifact
func (w *FileWriter) WritePage(ctx context.Context, page *models.Page) error {
	path, err := w.artifactPath(page.UrlPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(page.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write page artifact: %w", err)
	}
	w.log.Info().Str("url_path", page.UrlPath).Str("file", path).Msg("Page artifact written")
	return nil
}

// WriteRedirect leaves a client-side redirect stub at a vacated slug
func (w *FileWriter) WriteRedirect(ctx context.Context, fromPath, toPath string) error {
	path, err := w.artifactPath(fromPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	target := "/" + strings.TrimPrefix(toPath, "/")
	stub := fmt.Sprintf(
		"<!DOCTYPE html><html><head><meta http-equiv=\"refresh\" content=\"0; url=%s\"><link rel=\"canonical\" href=\"%s\"></head></html>\n",
		html.EscapeString(target), html.EscapeString(target),
	)
	if err := os.WriteFile(path, []byte(stub), 0o644); err != nil {
		return fmt.Errorf("failed to write redirect artifact: %w", err)
	}
	w.log.Info().Str("from", fromPath).Str("to", toPath).Msg("Redirect artifact written")
	return nil
}

// RemovePage deletes the artifact for a slug; already-absent files are fine
func (w *FileWriter) RemovePage(ctx context.Context, urlPath string) error {
	path, err := w.artifactPath(urlPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove page artifact: %w", err)
	}
	return nil
}

// artifactPath maps a slug to a file under the root, refusing traversal out
// of it.
func (w *FileWriter) artifactPath(urlPath string) (string, error) {
	clean := filepath.Clean("/" + strings.Trim(urlPath, "/"))
	if clean == "/" {
		clean = "/index"
	}
	full := filepath.Join(w.root, clean+".html")
	if !strings.HasPrefix(full, filepath.Clean(w.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("url path %q escapes artifact root", urlPath)
	}
	return full, nil
}

// Noop satisfies Writer for tenants without static publishing
type Noop struct{}

func (Noop) WritePage(context.Context, *models.Page) error       { return nil }
func (Noop) WriteRedirect(context.Context, string, string) error { return nil }
func (Noop) RemovePage(context.Context, string) error            { return nil }
