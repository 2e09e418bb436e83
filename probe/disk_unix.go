//go:build unix

package probe

import "golang.org/x/sys/unix"

// statfs returns available and total bytes for the filesystem containing path.
func statfs(path string) (free, total uint64, err error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, err
	}
	// Bavail counts blocks available to unprivileged callers, which matches
	// what a service actually has to work with.
	bsize := uint64(st.Bsize)
	return uint64(st.Bavail) * bsize, uint64(st.Blocks) * bsize, nil
}
