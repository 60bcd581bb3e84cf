package painting

// PixelFormat is an enumeration of pixel formats
type PixelFormat int

const (
	// RGBA32 is 32-bit format with bytes ordered R, G, B, A
	RGBA32 PixelFormat = iota
	// BGRA32 is 32-bit format with bytes ordered B, G, R, A (XRGB8888 scanout)
	BGRA32
)

// GetPixelSize returns the number of bytes per pixel
func GetPixelSize(pixFormat PixelFormat) int {
	switch pixFormat {
	case RGBA32, BGRA32:
		return 4
	default:
		return 0
	}
}

// GetPixelDepth returns the colour depth in bits
func GetPixelDepth(pixFormat PixelFormat) int {
	switch pixFormat {
	case RGBA32:
		return 32
	case BGRA32:
		return 24
	default:
		return 0
	}
}
