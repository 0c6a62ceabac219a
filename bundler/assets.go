package bundler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hazyhaar/ptdbuild/horosafe"
)

// ensureDir creates dir and reports whether it did. An existing directory
// is the only tolerated failure; anything else, including an existing
// non-directory, is an IOError.
func ensureDir(dir string) (bool, error) {
	err := os.Mkdir(dir, 0o755)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrExist) {
		if info, serr := os.Stat(dir); serr == nil && info.IsDir() {
			return false, nil
		}
	}
	return false, ioErr("mkdir", dir, err)
}

// safeJoin joins name under dir, refusing names that climb out of it.
func safeJoin(dir, name string) (string, error) {
	return horosafe.SafePath(dir, name)
}

// copyFile copies src over dst, creating dst's parent directories inside
// the output tree when the asset lives in a subdirectory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return ioErr("copy", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return ioErr("copy", src, err)
	}
	if info.IsDir() {
		return ioErr("copy", src, fmt.Errorf("is a directory"))
	}

	if dinfo, err := os.Stat(dst); err == nil && os.SameFile(info, dinfo) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ioErr("mkdir", filepath.Dir(dst), err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return ioErr("copy", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return ioErr("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return ioErr("copy", dst, err)
	}
	return nil
}

// replaceDir removes dst (errors ignored) and copies the src tree in its place.
func replaceDir(src, dst string) error {
	_ = os.RemoveAll(dst)
	info, err := os.Stat(src)
	if err != nil {
		return ioErr("copy", src, err)
	}
	if !info.IsDir() {
		return ioErr("copy", src, fmt.Errorf("not a directory"))
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return ioErr("copy", src, err)
	}
	return nil
}

// listFiles returns every regular file under dir.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
