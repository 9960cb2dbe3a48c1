// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the drawing target the editor composites onto.
//
// Surface is a small immediate-mode canvas: a save/restore state stack with
// an affine transform and rectangular clip, blend groups, path fill and
// stroke, image blits, single-line text and raw pixel access. The editor
// never assumes a particular backend.
//
// # Implementations
//
//   - GG: software rendering through github.com/gogpu/gg
//   - Recorder: records calls as typed commands without rasterizing, for
//     tests and inspection
//
// Hosts can provide their own implementation, for example one that draws
// straight into a window's back buffer.
//
// # Coordinates
//
// All drawing coordinates are in user space and pass through the current
// transform. Pixel access (ImageData, PutImageData) always works in device
// pixels and ignores the transform and clip.
package surface
