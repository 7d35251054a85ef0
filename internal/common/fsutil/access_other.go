//go:build !unix

package fsutil

import "os"

func accessRead(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
