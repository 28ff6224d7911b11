package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Source is one input file.
type Source struct {
	Name    string // file name, used for format detection and reports
	Format  Format // declared format, Unknown to detect
	Content []byte
}

func (src Source) String() string {
	return fmt.Sprintf("(Source %s %s #%d)", src.Name, src.Format, len(src.Content))
}

// BaseName returns the file name without directory and extension.
func (src Source) BaseName() string {
	b := path.Base(strings.ReplaceAll(src.Name, "\\", "/"))
	return strings.TrimSuffix(b, path.Ext(b))
}

const readChunk = 64 * 1024

// SourceFromReader reads a complete source from r. Reading stops with the
// context's error if ctx is cancelled; a partially read source is never
// returned.
func SourceFromReader(ctx context.Context, name string, r io.Reader) (Source, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return Source{}, fmt.Errorf("read %s: %w", name, err)
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			break
		} else if err != nil {
			return Source{}, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return Source{Name: name, Content: buf.Bytes()}, nil
}

// batch gives extractors access to the other files of an import batch, e.g.
// to resolve a referenced template file.
type batch struct {
	sources []Source
	used    map[int]string // index → name of the consuming file
}

func newBatch(sources []Source) *batch {
	return &batch{sources: sources, used: make(map[int]string)}
}

// lookup finds a file by name, comparing paths from the end: "./x.html"
// matches "app/x.html".
func (b *batch) lookup(name string) (int, bool) {
	if b == nil {
		return -1, false
	}
	want := path.Clean(strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "./"))
	for i, src := range b.sources {
		have := path.Clean(strings.ReplaceAll(src.Name, "\\", "/"))
		if have == want || strings.HasSuffix(have, "/"+want) || path.Base(have) == path.Base(want) {
			return i, true
		}
	}
	return -1, false
}

// consume looks up a file and marks it as used by another file.
func (b *batch) consume(name, by string) (Source, bool) {
	i, ok := b.lookup(name)
	if !ok {
		return Source{}, false
	}
	b.used[i] = by
	return b.sources[i], true
}

type batchKey struct{}

func withBatch(ctx context.Context, b *batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

func batchFrom(ctx context.Context) *batch {
	b, _ := ctx.Value(batchKey{}).(*batch)
	return b
}
