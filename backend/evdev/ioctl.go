// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// inputAbsinfo mirrors struct input_absinfo.
type inputAbsinfo struct {
	value      int32
	minimum    int32
	maximum    int32
	fuzz       int32
	flat       int32
	resolution int32
}

const (
	iocRead  = 2
	iocWrite = 1
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | 'E'<<8 | nr
}

// readAbs returns the range of the absolute axis code.
func readAbs(fd uintptr, code int) (absRange, error) {
	var info inputAbsinfo
	req := ioc(iocRead, 0x40+uintptr(code), unsafe.Sizeof(info))
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&info))); errno != 0 {
		return absRange{}, errno
	}
	return absRange{min: info.minimum, max: info.maximum}, nil
}

// useMonotonicClock makes the kernel stamp events with
// CLOCK_MONOTONIC.
func useMonotonicClock(fd uintptr) error {
	req := ioc(iocWrite, 0xa0, unsafe.Sizeof(int32(0)))
	return unix.IoctlSetPointerInt(int(fd), uint(req), unix.CLOCK_MONOTONIC)
}
