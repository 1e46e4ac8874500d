package main

import "math"

// ContentSizeCalculator decides how a piece of content is scaled and
// optionally rotated to fit a viewport. It is a pure computation; the
// setters only affect subsequent Calculate calls.
type ContentSizeCalculator struct {
	viewport    Size
	stretchMode StretchMode
	autoRotate  AutoRotateType
}

// NewContentSizeCalculator creates a calculator for the given viewport
// and policy.
func NewContentSizeCalculator(viewport Size, stretchMode StretchMode, autoRotate AutoRotateType) *ContentSizeCalculator {
	return &ContentSizeCalculator{
		viewport:    viewport,
		stretchMode: stretchMode,
		autoRotate:  autoRotate,
	}
}

// SetViewport replaces the viewport for subsequent calculations.
func (c *ContentSizeCalculator) SetViewport(viewport Size) {
	c.viewport = viewport
}

// SetStretchMode replaces the stretch mode for subsequent calculations.
func (c *ContentSizeCalculator) SetStretchMode(mode StretchMode) {
	c.stretchMode = mode
}

// SetAutoRotate replaces the rotation policy for subsequent calculations.
func (c *ContentSizeCalculator) SetAutoRotate(mode AutoRotateType) {
	c.autoRotate = mode
}

// ContentLayout is the result of a Calculate call.
type ContentLayout struct {
	Size     Size    // final display size in viewport pixels
	Scale    float64 // uniform scale applied to the (possibly rotated) content
	Rotation float64 // rotation in degrees, applied before scaling
}

// Calculate returns the display size, scale, and rotation for the given
// content. Degenerate content returns a zero size with identity scale and
// no rotation; it never fails.
func (c *ContentSizeCalculator) Calculate(contentSize Size) ContentLayout {
	if contentSize.IsEmpty() {
		return ContentLayout{Size: ZeroSize(), Scale: 1, Rotation: 0}
	}

	rotation := c.calculateRotation(contentSize)

	// A quarter turn swaps the axes before the scale is computed.
	effective := contentSize
	if math.Abs(rotation) > 45 {
		effective = contentSize.Swapped()
	}

	scale := c.CalculateScale(effective)

	return ContentLayout{
		Size:     effective.Scaled(scale),
		Scale:    scale,
		Rotation: rotation,
	}
}

// CalculateScale returns the scale factor for the content under the
// current stretch mode, without considering rotation.
func (c *ContentSizeCalculator) CalculateScale(contentSize Size) float64 {
	if contentSize.IsEmpty() {
		return 1
	}

	scaleX := c.viewport.Width / contentSize.Width
	scaleY := c.viewport.Height / contentSize.Height

	switch c.stretchMode {
	case StretchNone:
		return 1
	case StretchUniform:
		return math.Min(scaleX, scaleY)
	case StretchUniformToFill:
		return math.Max(scaleX, scaleY)
	case StretchUniformToVertical:
		return scaleY
	case StretchUniformToHorizontal:
		return scaleX
	case StretchFill:
		// Fill would need independent per-axis factors; this single-scale
		// approximation averages them. Pinned by TestFillScaleAveraging.
		return (scaleX + scaleY) / 2
	default:
		return math.Min(scaleX, scaleY)
	}
}

func (c *ContentSizeCalculator) calculateRotation(contentSize Size) float64 {
	switch c.autoRotate {
	case AutoRotateLeft:
		return -90
	case AutoRotateRight:
		return 90
	case AutoRotateAuto:
		// Orientation flip only: compares width>height, not magnitude.
		if contentSize.IsLandscape() != c.viewport.IsLandscape() {
			return 90
		}
		return 0
	default:
		return 0
	}
}

// CalculateUniformScale is the Uniform (fit) scale for content in a viewport.
func CalculateUniformScale(content, viewport Size) float64 {
	if content.IsEmpty() {
		return 1
	}
	return math.Min(viewport.Width/content.Width, viewport.Height/content.Height)
}

// CalculateFillScale is the UniformToFill (cover) scale for content in a viewport.
func CalculateFillScale(content, viewport Size) float64 {
	if content.IsEmpty() {
		return 1
	}
	return math.Max(viewport.Width/content.Width, viewport.Height/content.Height)
}

// CalculateWidePageScales returns per-element scale factors that align the
// given raw sizes of a double-page frame under the wide-page stretch mode.
// Fewer than two sizes, or degenerate dimensions, produce identity scales.
func CalculateWidePageScales(sizes []Size, stretch WidePageStretch) []float64 {
	scales := make([]float64, len(sizes))
	for i := range scales {
		scales[i] = 1
	}
	if len(sizes) < 2 {
		return scales
	}

	switch stretch {
	case WidePageStretchUniformHeight:
		maxHeight := 0.0
		for _, s := range sizes {
			maxHeight = math.Max(maxHeight, s.Height)
		}
		if maxHeight <= 0 {
			return scales
		}
		for i, s := range sizes {
			if s.Height > 0 {
				scales[i] = maxHeight / s.Height
			}
		}
	case WidePageStretchUniformWidth:
		maxWidth := 0.0
		for _, s := range sizes {
			maxWidth = math.Max(maxWidth, s.Width)
		}
		if maxWidth <= 0 {
			return scales
		}
		for i, s := range sizes {
			if s.Width > 0 {
				scales[i] = maxWidth / s.Width
			}
		}
	}

	return scales
}
