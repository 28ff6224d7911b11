package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/result"
	"github.com/npillmayer/pagetree/tree"
)

// WarningRole marks the synthetic node prepended to archived pages whose
// styling could not be mapped completely.
const WarningRole = "import-warning"

const complexStylingNote = "Parts of the original styling of this page were too complex " +
	"to be imported and have been dropped."

type archiveExtractor struct {
	opts Options
}

func (ex archiveExtractor) Name() string { return "archive" }

func (ex archiveExtractor) Accepts(f Format) bool {
	return f == Archive
}

// TryParse maps an archived page. MIME multipart archives are unpacked
// first; resources referenced by the page are inlined as data URIs, taking
// their base64 payload verbatim. Embedded payloads are never re-encoded.
func (ex archiveExtractor) TryParse(ctx context.Context, src Source) result.Result[*Extraction] {
	col := &collector{file: src.Name, format: Archive}
	content := src.Content
	if isMIME(content) {
		page, err := unpackMHTML(content)
		if err != nil {
			return failf("cannot unpack MIME archive: %v", err)
		}
		col.add(Info, Incomplete, "unpacked MIME archive, %d resource(s) inlined", page.inlined)
		content = page.html
	}
	ev := Examine(content, ex.opts.ArchiveSizeThreshold)
	x, lossy, err := mapDocument(ctx, content, ex.opts, col)
	if err != nil {
		return result.Err[*Extraction](err)
	}
	if ev.DataImages > 0 {
		kept := countEmbedded(x.Tree)
		sev := Info
		if kept < ev.DataImages {
			sev = Warning
		}
		col.add(sev, Incomplete, "%d embedded image payload(s) found, %d kept on image nodes", ev.DataImages, kept)
	}
	if lossy {
		w := element.NewWithID(ex.opts.Generator(), element.Text)
		w.Props.Set("content", complexStylingNote)
		w.Props.Set("role", WarningRole)
		x.Tree.Roots = element.InsertAt(x.Tree.Roots, 0, w)
	}
	x.Diagnostics = col.diags
	return result.Ok(x)
}

// countEmbedded counts nodes carrying a data URI in one of their props.
func countEmbedded(t *tree.Tree) int {
	n := 0
	t.Walk(func(node *element.Node, _ tree.Path) bool {
		for _, k := range node.Props.Keys() {
			if strings.HasPrefix(node.Props.String(k), "data:") {
				n++
				break
			}
		}
		return true
	})
	return n
}

// --- MIME archives ---------------------------------------------------------

func isMIME(content []byte) bool {
	head := content
	if len(head) > 2048 {
		head = head[:2048]
	}
	return bytes.Contains(head, []byte("MIME-Version:")) &&
		bytes.Contains(bytes.ToLower(head), []byte("multipart/"))
}

type mhtmlPage struct {
	html    []byte
	inlined int
}

type mhtmlResource struct {
	location string
	mediaTyp string
	payload  string // base64
}

// unpackMHTML decodes the first text/html part of a multipart archive and
// replaces references to other parts with data URIs.
func unpackMHTML(content []byte) (*mhtmlPage, error) {
	msg, err := mail.ReadMessage(bufio.NewReader(bytes.NewReader(content)))
	if err != nil {
		return nil, err
	}
	mt, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mt, "multipart/") || params["boundary"] == "" {
		return nil, fmt.Errorf("not a multipart archive: %s", mt)
	}
	mr := multipart.NewReader(msg.Body, params["boundary"])
	var page []byte
	var resources []mhtmlResource
	for {
		part, err := mr.NextRawPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		ct, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		enc := strings.ToLower(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding")))
		loc := strings.TrimSpace(part.Header.Get("Content-Location"))
		if ct == "text/html" && page == nil {
			if page, err = decodePart(part, enc); err != nil {
				return nil, err
			}
			continue
		}
		if loc == "" {
			continue
		}
		raw, err := io.ReadAll(part)
		if err != nil {
			return nil, err
		}
		var payload string
		if enc == "base64" {
			payload = strings.Join(strings.Fields(string(raw)), "")
		} else {
			decoded, err := decodePart(bytes.NewReader(raw), enc)
			if err != nil {
				return nil, err
			}
			payload = base64.StdEncoding.EncodeToString(decoded)
		}
		resources = append(resources, mhtmlResource{location: loc, mediaTyp: ct, payload: payload})
	}
	if page == nil {
		return nil, fmt.Errorf("archive contains no text/html part")
	}
	inlined := 0
	for _, res := range resources {
		ref := []byte(res.location)
		if !bytes.Contains(page, ref) {
			continue
		}
		uri := []byte("data:" + res.mediaTyp + ";base64," + res.payload)
		page = bytes.ReplaceAll(page, ref, uri)
		inlined++
	}
	tracer().Debugf("MIME archive: %d bytes of markup, %d resources", len(page), len(resources))
	return &mhtmlPage{html: page, inlined: inlined}, nil
}

func decodePart(r io.Reader, encoding string) ([]byte, error) {
	switch encoding {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r) // line breaks are ignored
	}
	return io.ReadAll(r)
}
