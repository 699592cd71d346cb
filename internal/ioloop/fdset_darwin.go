//go:build darwin

package ioloop

import "golang.org/x/sys/unix"

// unix.FdSet.Bits is [32]int32 on Darwin.

func fdZero(set *unix.FdSet) {
	for i := range set.Bits {
		set.Bits[i] = 0
	}
}

func fdSet(fd int, set *unix.FdSet) {
	set.Bits[fd/32] |= 1 << (uint(fd) % 32)
}

func fdIsSet(fd int, set *unix.FdSet) bool {
	return set.Bits[fd/32]&(1<<(uint(fd)%32)) != 0
}
