package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/mdsohelmia/fontsync/pkg/logger"
)

type Zip struct {
	fs  billy.Filesystem
	log *logger.Logger
}

func New(fs billy.Filesystem, log *logger.Logger) Zip {
	if log == nil {
		log = logger.Nop()
	}
	return Zip{fs: fs, log: log}
}

// Extract keeps the archive's relative paths under dest and writes files
// as 0644. Entries that would land outside dest are skipped. The archive
// itself is left in place.
func (z Zip) Extract(src string, dest string) (files []string, err error) {
	f, err := z.fs.Open(src)
	if err != nil {
		return nil, &Error{Archive: src, Err: err}
	}
	defer f.Close()

	info, err := z.fs.Stat(src)
	if err != nil {
		return nil, &Error{Archive: src, Err: err}
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, &Error{Archive: src, Err: err}
	}

	root := filepath.Clean(dest)
	for _, entry := range r.File {
		path := filepath.Join(root, entry.Name)

		// negate ZipSlip vulnerability (http://bit.ly/2MsjAWE)
		if !within(root, path) {
			z.log.Warn().Str("archive", src).Str("entry", entry.Name).Err(ErrIllegalPath).Msg("Skipping entry")
			continue
		}
		if entry.FileInfo().IsDir() {
			if err := z.fs.MkdirAll(path, os.ModePerm); err != nil {
				return files, err
			}
			continue
		}
		if err := z.write(entry, path); err != nil {
			return files, fmt.Errorf("%s: %w", entry.Name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func (z Zip) write(entry *zip.File, path string) error {
	if err := z.fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	rc, err := entry.Open()
	if err != nil {
		return &Error{Archive: entry.Name, Err: err}
	}
	defer rc.Close()

	// archive permission bits are ignored so reruns can overwrite
	out, err := z.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return &Error{Archive: entry.Name, Err: err}
	}
	return out.Close()
}

func within(root string, path string) bool {
	if root == "." {
		return path != ".." && !strings.HasPrefix(path, ".."+string(filepath.Separator)) && !filepath.IsAbs(path)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
