package bundler

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/hazyhaar/ptdbuild/htmldoc"
)

// scriptSources returns the src attribute of every script element that has
// one, in document order. Inline scripts are skipped.
func scriptSources(doc *htmldoc.Document) []string {
	var srcs []string
	for _, n := range doc.Query("script[src]") {
		src, _ := htmldoc.Attr(n, "src")
		srcs = append(srcs, src)
	}
	return srcs
}

// resolveSource maps a src attribute to a file under base. A leading slash
// means the site root, which is base as well.
func resolveSource(base, src string) string {
	return filepath.Join(base, filepath.FromSlash(src))
}

// mergeScripts concatenates every referenced script, byte for byte, in
// document order. Nothing is written if any source is missing.
func mergeScripts(doc *htmldoc.Document, base string) ([]byte, []string, error) {
	srcs := scriptSources(doc)
	var buf bytes.Buffer
	for _, src := range srcs {
		if err := appendFile(&buf, resolveSource(base, src)); err != nil {
			return nil, nil, err
		}
	}
	return buf.Bytes(), srcs, nil
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ioErr("read", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return ioErr("read", path, err)
	}
	return nil
}
