//go:build linux || darwin || freebsd

package ram

import "golang.org/x/sys/unix"

// allocate maps anonymous private memory, which the kernel hands out zeroed.
func allocate(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}
