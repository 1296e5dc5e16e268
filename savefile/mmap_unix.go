//go:build unix

package savefile

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

func openMapped(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	st, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size == 0 {
		// Zero-length mappings are rejected by the kernel.
		return &File{}, nil
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("open %s: size %d exceeds address space", path, size)
	}

	data, err := unix.Mmap(int(fd.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// Some filesystems refuse mmap; fall back to a full read.
		buf, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, rerr
		}
		return &File{data: buf}, nil
	}
	return &File{data: data, mapped: true}, nil
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}
