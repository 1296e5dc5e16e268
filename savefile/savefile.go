// Package savefile is the file boundary: it moves save bytes between
// disk and memory without interpreting them. Reading offers a plain
// full read or a memory-mapped view; writing always goes through an
// atomic write-replace so a failed write never clobbers the previous
// save. Container handling (unzip, checksum recompute) stays outside
// the engine; this package only detects containers and hosts the
// re-stamp hook.
package savefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

var (
	// ErrCompressed marks input still wrapped in a compression
	// container. Unpack it before parsing.
	ErrCompressed = errors.New("compressed save container")

	// ErrBinary marks ironman-style binary token data, which has no
	// text form to parse.
	ErrBinary = errors.New("binary save data")
)

// ReadFile reads a save whole. The returned slice is owned by the
// caller; prefer Open for large saves that should stay on disk.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

type writeOpts struct {
	stamps []func([]byte) []byte
}

// WriteOption configures WriteFile.
type WriteOption func(*writeOpts)

// WithStamp registers a re-stamp step applied to the byte stream
// before it reaches disk. Titles that embed a content checksum or
// trailing metadata recompute it here. Stamps run in registration
// order, each seeing the previous stamp's output.
func WithStamp(stamp func([]byte) []byte) WriteOption {
	return func(o *writeOpts) {
		o.stamps = append(o.stamps, stamp)
	}
}

// WriteFile replaces the file at path with data, atomically. The data
// lands in a temporary file first and is renamed over the target, so
// on any failure the previous save is still intact.
func WriteFile(path string, data []byte, opts ...WriteOption) error {
	var o writeOpts
	for _, opt := range opts {
		opt(&o)
	}
	for _, stamp := range o.stamps {
		data = stamp(data)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Container identifies what wraps the bytes of a save on disk.
type Container int

const (
	// PlainContainer is uncompressed save text, ready to parse.
	PlainContainer Container = iota
	// ZipContainer is a zip archive holding the save entries.
	ZipContainer
	// GzipContainer is a gzip stream.
	GzipContainer
	// BinaryContainer is ironman-style binary token data.
	BinaryContainer
)

func (c Container) String() string {
	switch c {
	case PlainContainer:
		return "plain"
	case ZipContainer:
		return "zip"
	case GzipContainer:
		return "gzip"
	case BinaryContainer:
		return "binary"
	}
	return fmt.Sprintf("container(%d)", int(c))
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Sniff classifies the container around data by its leading bytes.
// Text saves opening with a magic word like "EU4txt" are plain; their
// binary siblings end the word in "bin".
func Sniff(data []byte) Container {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return ZipContainer
	}
	if len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B {
		return GzipContainer
	}
	if m := magicWord(data); len(m) > 3 && bytes.HasSuffix(m, []byte("bin")) {
		return BinaryContainer
	}
	return PlainContainer
}

// CheckPlain returns nil when data is plain save text, and otherwise
// an error naming the container it is still inside.
func CheckPlain(data []byte) error {
	switch Sniff(data) {
	case ZipContainer:
		return fmt.Errorf("zip archive, unpack it first: %w", ErrCompressed)
	case GzipContainer:
		return fmt.Errorf("gzip stream, unpack it first: %w", ErrCompressed)
	case BinaryContainer:
		return fmt.Errorf("%s: %w", magicWord(data), ErrBinary)
	}
	return nil
}

// magicWord returns the leading ASCII word of data when it looks like
// a format tag such as "EU4txt" or "HOI4bin": a short alnum run not
// followed by '='. The first key of an untagged save never qualifies.
func magicWord(data []byte) []byte {
	data = bytes.TrimPrefix(data, bom)
	n := 0
	for n < len(data) && isAlnum(data[n]) {
		if n == 8 {
			return nil
		}
		n++
	}
	if n < len(data) && data[n] == '=' {
		return nil
	}
	return data[:n]
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
