package savefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.eu4")
	data := []byte("player=\"FRA\"\ndate=1444.11.11\n")

	require.NoError(t, WriteFile(path, data))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.eu4")

	require.NoError(t, WriteFile(path, []byte("treasury=100.5\n")))
	require.NoError(t, WriteFile(path, []byte("treasury=99.900\n")))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "treasury=99.900\n", string(got))
}

func TestWriteFileStamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.eu4")

	err := WriteFile(path, []byte("date=1444.11.11\n"),
		WithStamp(func(b []byte) []byte {
			return append(b, "checksum=\"9a8b\"\n"...)
		}),
		WithStamp(func(b []byte) []byte {
			return append([]byte("EU4txt\n"), b...)
		}),
	)
	require.NoError(t, err)

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "EU4txt\ndate=1444.11.11\nchecksum=\"9a8b\"\n", string(got))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.eu4")
	data := []byte("countries={\n\tFRA={ treasury=100.5 }\n}\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, data, f.Bytes())
	require.Equal(t, len(data), f.Len())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.eu4")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 0, f.Len())
	require.NoError(t, f.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.eu4"))
	require.Error(t, err)
}

func TestSniff(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   []byte
		e    Container
	}{
		{"bare text", []byte("a=1\n"), PlainContainer},
		{"text magic", []byte("EU4txt\nplayer=\"FRA\"\n"), PlainContainer},
		{"bom text", []byte("\xef\xbb\xbfa=1\n"), PlainContainer},
		{"empty", nil, PlainContainer},
		{"binary magic", []byte("EU4bin\x01\x00\x03\x00"), BinaryContainer},
		{"hoi4 binary", []byte("HOI4bin\x01\x00"), BinaryContainer},
		{"zip", []byte("PK\x03\x04rest"), ZipContainer},
		{"gzip", []byte{0x1F, 0x8B, 0x08, 0x00}, GzipContainer},
		{"bin is a word", []byte("bin=1\n"), PlainContainer},
		{"key ending in bin", []byte("albin=1\n"), PlainContainer},
		{"long first key", []byte("technology=1\n"), PlainContainer},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.e, Sniff(tc.in))
		})
	}
}

func TestCheckPlain(t *testing.T) {
	require.NoError(t, CheckPlain([]byte("a=1\n")))

	err := CheckPlain([]byte("PK\x03\x04rest"))
	require.ErrorIs(t, err, ErrCompressed)

	err = CheckPlain([]byte("EU4bin\x01\x00"))
	require.ErrorIs(t, err, ErrBinary)
	require.Contains(t, err.Error(), "EU4bin")
}
