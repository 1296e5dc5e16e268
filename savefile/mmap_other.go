//go:build !unix

package savefile

import "os"

func openMapped(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

func munmap(data []byte) error {
	return nil
}
