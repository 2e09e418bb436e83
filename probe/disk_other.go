//go:build !unix

package probe

import "errors"

func statfs(path string) (free, total uint64, err error) {
	return 0, 0, errors.New("disk statistics not supported on this platform")
}
