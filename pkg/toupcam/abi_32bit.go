//go:build arm || 386

package toupcam

import "unsafe"

// Compile-time struct size assertions for 32-bit targets.
var (
	_ [8]byte   = [unsafe.Sizeof(Resolution{})]byte{}
	_ [16]byte  = [unsafe.Sizeof(Rect{})]byte{}
	_ [148]byte = [unsafe.Sizeof(model{})]byte{}
	_ [132]byte = [unsafe.Sizeof(instance{})]byte{}
)
