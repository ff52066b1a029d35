package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// PixelsPerUnit scales world units to screen pixels in the viewer.
	PixelsPerUnit = 16.0
)
