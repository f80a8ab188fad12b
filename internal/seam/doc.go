// Package seam implements content-aware image shrinking by seam carving.
//
// A vertical seam is a connected top-to-bottom path with one pixel per row,
// where each step moves at most one column left or right. Removing the seam
// of lowest total energy narrows the image by one pixel while keeping the
// high-contrast content in place.
//
// The package exposes two primitives, FindVerticalSeam and
// RemoveVerticalSeam, plus Carve, which shrinks both axes by repeating them
// one seam at a time. Height is reduced by rotating the image a quarter turn,
// removing vertical seams and rotating back.
//
// # Energy
//
// The energy of a pixel is the sum over R, G and B of the Sobel gradient
// magnitude |Gx| + |Gy|. Border pixels replicate their nearest neighbour.
// Alpha does not contribute.
package seam
