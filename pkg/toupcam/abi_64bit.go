//go:build amd64 || arm64

package toupcam

import "unsafe"

// Compile-time struct size assertions.
// These will cause build failures if struct sizes don't match toupcam.h.
var (
	_ [8]byte   = [unsafe.Sizeof(Resolution{})]byte{}
	_ [16]byte  = [unsafe.Sizeof(Rect{})]byte{}
	_ [152]byte = [unsafe.Sizeof(model{})]byte{}
	_ [136]byte = [unsafe.Sizeof(instance{})]byte{}
)
