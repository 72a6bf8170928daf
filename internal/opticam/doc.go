// Package opticam implements the distortion-correction core for an optical
// tracking camera: the bidirectional mapping between raw pixel coordinates
// and true undistorted ray directions, driven by a per-device 64×64
// calibration grid, and the pooled-buffer validity model that lets a frame
// producer recycle image storage ahead of its consumers.
//
// Responsibilities: calibration grid lookup and bilinear warp/rectify,
// per-connection calibration caching, and the generation-stamped frame
// arena with its handle accessors.
//
// The producer is the sole mutator of pool slots. Pixel reads through an
// ImageHandle return validated snapshot copies; calibration grids are shared
// by reference and must be treated as read-only.
package opticam
