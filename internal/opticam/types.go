package opticam

import "fmt"

// ImageFormat describes the pixel encoding of a frame. The core does not
// parse pixel data; the format is metadata carried through to consumers.
type ImageFormat int32

const (
	// FormatInfrared is a single-channel infrared intensity image.
	FormatInfrared ImageFormat = 0
	// FormatIBRG is an interleaved Bayer-pattern image.
	FormatIBRG ImageFormat = 1
)

func (f ImageFormat) String() string {
	switch f {
	case FormatInfrared:
		return "infrared"
	case FormatIBRG:
		return "ibrg"
	default:
		return fmt.Sprintf("format(%d)", int32(f))
	}
}

// Perspective identifies which physical camera of the device produced a
// frame.
type Perspective int32

const (
	PerspectiveInvalid     Perspective = 0
	PerspectiveStereoLeft  Perspective = 1
	PerspectiveStereoRight Perspective = 2
	PerspectiveMono        Perspective = 3
)

// perspectivePublicIDs maps the internal enumeration to the numeric camera
// id exposed to clients. The public id space does not match the enum values
// (left is 0 publicly but 1 internally); this table is the contract, do not
// replace it with an identity mapping.
var perspectivePublicIDs = map[Perspective]int32{
	PerspectiveInvalid:     -1,
	PerspectiveStereoLeft:  0,
	PerspectiveStereoRight: 1,
	PerspectiveMono:        2,
}

// PublicID returns the client-facing camera id for this perspective.
// Unknown values map to -1, same as PerspectiveInvalid.
func (p Perspective) PublicID() int32 {
	if id, ok := perspectivePublicIDs[p]; ok {
		return id
	}
	return -1
}

func (p Perspective) String() string {
	switch p {
	case PerspectiveStereoLeft:
		return "stereo_left"
	case PerspectiveStereoRight:
		return "stereo_right"
	case PerspectiveMono:
		return "mono"
	case PerspectiveInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("perspective(%d)", int32(p))
	}
}

// RayDirection is a normalized 2D view-angle vector (horizontal, vertical)
// describing a light ray relative to the camera, independent of image
// resolution.
type RayDirection struct {
	X, Y float32
}

// PixelPoint is a 2D pixel position. Z is always zero; the third component
// is kept so pixel positions can flow through the same 3-vector plumbing as
// world-space points elsewhere in the device stack.
type PixelPoint struct {
	X, Y, Z float32
}
