package main

import (
	"fmt"
	"image"
	"math"
)

// Size is a 2D dimension in pixels (or any uniform unit).
type Size struct {
	Width  float64
	Height float64
}

// NewSize creates a Size from width and height.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// ZeroSize returns an empty size.
func ZeroSize() Size {
	return Size{}
}

// IsLandscape reports whether the size is wider than tall.
func (s Size) IsLandscape() bool {
	return s.Width > s.Height
}

// AspectRatio returns width/height, or 1.0 for a degenerate height.
func (s Size) AspectRatio() float64 {
	if s.Height > 0 {
		return s.Width / s.Height
	}
	return 1.0
}

// IsEmpty reports whether either dimension is missing.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Scaled returns the size multiplied by a uniform factor.
func (s Size) Scaled(factor float64) Size {
	return Size{Width: s.Width * factor, Height: s.Height * factor}
}

// Swapped returns the size with width and height exchanged.
func (s Size) Swapped() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// CropRect is a normalized (0-1) sub-rectangle of a page.
// A nil *CropRect on an element means the full, untransformed page.
type CropRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FullCrop covers the entire page.
func FullCrop() CropRect {
	return CropRect{X: 0, Y: 0, Width: 1, Height: 1}
}

// LeftHalfCrop covers the left half of a page.
func LeftHalfCrop() CropRect {
	return CropRect{X: 0, Y: 0, Width: 0.5, Height: 1}
}

// RightHalfCrop covers the right half of a page.
func RightHalfCrop() CropRect {
	return CropRect{X: 0.5, Y: 0, Width: 0.5, Height: 1}
}

// IsFull reports whether the crop covers the entire page.
func (c CropRect) IsFull() bool {
	const eps = 0.001
	return math.Abs(c.X) < eps && math.Abs(c.Y) < eps &&
		math.Abs(c.Width-1) < eps && math.Abs(c.Height-1) < eps
}

// PixelRect maps the normalized crop onto a page of the given pixel
// dimensions, for use with image SubImage-style cropping.
func (c CropRect) PixelRect(width, height int) image.Rectangle {
	x0 := int(math.Round(c.X * float64(width)))
	y0 := int(math.Round(c.Y * float64(height)))
	x1 := int(math.Round((c.X + c.Width) * float64(width)))
	y1 := int(math.Round((c.Y + c.Height) * float64(height)))
	return image.Rect(x0, y0, x1, y1)
}

// CSSClipPath renders the crop as a CSS inset() clip value.
// Kept for debug output and host surfaces that clip with insets.
func (c CropRect) CSSClipPath() string {
	top := c.Y * 100
	right := (1 - c.X - c.Width) * 100
	bottom := (1 - c.Y - c.Height) * 100
	left := c.X * 100
	return fmt.Sprintf("inset(%.1f%% %.1f%% %.1f%% %.1f%%)", top, right, bottom, left)
}
