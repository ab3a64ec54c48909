package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"getsrc/internal/ext"
	logger "getsrc/internal/log"
)

var ErrUnsafePath = errors.New("archive entry escapes target directory")

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Extract unpacks a tar archive, optionally gzip, bzip2, xz or zstd compressed,
// into target. The compression is detected from the content.
func Extract(filename string, target string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stream, closeStream, err := decompress(bufio.NewReader(file))
	if err != nil {
		return nil, err
	}
	defer closeStream()

	target, err = filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return nil, err
	}

	var entries []string
	reader := tar.NewReader(stream)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return entries, fmt.Errorf("%w: %s", ErrUnsafePath, header.Name)
		}
		if err != nil {
			return entries, fmt.Errorf("malformed archive: %w", err)
		}
		if err := extractEntry(reader, header, target); err != nil {
			return entries, err
		}
		entries = append(entries, header.Name)
	}
	return entries, nil
}

func decompress(r *bufio.Reader) (io.Reader, func(), error) {
	magic, _ := r.Peek(len(xzMagic))
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case bytes.HasPrefix(magic, bzip2Magic):
		return bzip2.NewReader(r), func() {}, nil
	case bytes.HasPrefix(magic, xzMagic):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xzReader, func() {}, nil
	case bytes.HasPrefix(magic, zstdMagic):
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return decoder, decoder.Close, nil
	}
	return r, func() {}, nil
}

func extractEntry(reader *tar.Reader, header *tar.Header, target string) error {
	dest, err := resolve(target, header.Name)
	if err != nil {
		return err
	}
	mode := os.FileMode(header.Mode).Perm()

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(dest, 0755); err != nil {
			return err
		}
		return os.Chmod(dest, mode|0700)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := removeExisting(dest); err != nil {
			return err
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, reader); err != nil {
			_ = out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		return os.Chtimes(dest, header.ModTime, header.ModTime)
	case tar.TypeSymlink:
		if !linkStaysUnder(target, dest, header.Linkname) {
			return fmt.Errorf("%w: %s -> %s", ErrUnsafePath, header.Name, header.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := removeExisting(dest); err != nil {
			return err
		}
		return os.Symlink(header.Linkname, dest)
	case tar.TypeLink:
		source, err := resolve(target, header.Linkname)
		if err != nil {
			return err
		}
		if err := removeExisting(dest); err != nil {
			return err
		}
		return os.Link(source, dest)
	}
	logger.Log.Debugf("Skipping %s, unsupported entry type %c", header.Name, header.Typeflag)
	return nil
}

// resolve maps an entry name to a path under target. Symlinks already extracted are followed
// within target for every parent directory; the last element is never followed.
func resolve(target string, name string) (string, error) {
	if _, err := ext.JoinUnder(target, name); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	clean := filepath.Clean(name)
	parent, err := securejoin.SecureJoin(target, filepath.Dir(clean))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnsafePath, name, err)
	}
	return filepath.Join(parent, filepath.Base(clean)), nil
}

// linkStaysUnder reports whether a symlink at dest pointing to linkname resolves inside target.
func linkStaysUnder(target string, dest string, linkname string) bool {
	if linkname == "" {
		return false
	}
	resolved := linkname
	if !filepath.IsAbs(linkname) {
		resolved = filepath.Join(filepath.Dir(dest), linkname)
	}
	within, err := filepath.Rel(target, filepath.Clean(resolved))
	if err != nil {
		return false
	}
	return within != ".." && !strings.HasPrefix(within, ".."+string(filepath.Separator))
}

func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return os.Remove(path)
}
