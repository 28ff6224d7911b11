package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// WriteDir writes the files of b into dir, creating directories as
// needed. Existing files are overwritten. Files which would end up outside
// of dir are refused.
func WriteDir(b *Bundle, dir string) error {
	if b == nil {
		return ErrNoProject
	}
	manifest, err := json.MarshalIndent(b.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	files := map[string]string{
		"index.html":    b.Document,
		"styles.css":    b.Styles,
		"script.js":     b.Script,
		"manifest.json": string(manifest) + "\n",
	}
	for route, doc := range b.Pages {
		files[pageFile(b, route)] = doc
	}
	names := make([]string, 0, len(files))
	for name := range files {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return fmt.Errorf("writing bundle: %w", err)
		}
		tracer().Debugf("wrote %s", path)
	}
	return nil
}

// Files lists the bundle-relative names WriteDir writes, sorted.
func Files(b *Bundle) []string {
	names := []string{"index.html", "manifest.json", "script.js", "styles.css"}
	for route := range b.Pages {
		names = append(names, pageFile(b, route))
	}
	sort.Strings(names)
	return names
}

func pageFile(b *Bundle, route string) string {
	if f, ok := b.Files[route]; ok {
		return f
	}
	return RouteFile(route)
}
