//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func osMap(f *os.File, offset int64, length int) ([]byte, uintptr, error) {
	handle := windows.Handle(f.Fd())

	end := uint64(offset) + uint64(length)
	mapping, err := windows.CreateFileMapping(handle, nil, windows.PAGE_READONLY, uint32(end>>32), uint32(end), nil)
	if err != nil {
		return nil, 0, err
	}

	offsetHigh := uint32(uint64(offset) >> 32)
	offsetLow := uint32(offset)

	addr, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_READ, offsetHigh, offsetLow, uintptr(length))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, 0, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
	return data, uintptr(mapping), nil
}

func osUnmap(data []byte, mapping uintptr) error {
	if err := windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0]))); err != nil {
		return err
	}
	if mapping != 0 {
		return windows.CloseHandle(windows.Handle(mapping))
	}
	return nil
}

// Windows has no madvise; hints are accepted and ignored.
func osAdvise(_ []byte, _ AccessPattern) error {
	return nil
}
