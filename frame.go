package main

import "math"

// PageFrameElement is one displayed page or half-page within a frame.
type PageFrameElement struct {
	Page      Page
	PageRange PageRange
	IsDummy   bool      // placeholder element with no backing page
	CropRect  *CropRect // nil means the full page
	Scale     float64   // per-element scale for pairing alignment
}

// FullElement wraps a whole page.
func FullElement(page Page, pageRange PageRange) PageFrameElement {
	return PageFrameElement{Page: page, PageRange: pageRange, Scale: 1}
}

// LeftHalfElement wraps the left half of a split page.
func LeftHalfElement(page Page, pageRange PageRange) PageFrameElement {
	crop := LeftHalfCrop()
	return PageFrameElement{Page: page, PageRange: pageRange, CropRect: &crop, Scale: 1}
}

// RightHalfElement wraps the right half of a split page.
func RightHalfElement(page Page, pageRange PageRange) PageFrameElement {
	crop := RightHalfCrop()
	return PageFrameElement{Page: page, PageRange: pageRange, CropRect: &crop, Scale: 1}
}

// DummyElement is a blank filler with no backing page.
func DummyElement(pageRange PageRange) PageFrameElement {
	return PageFrameElement{PageRange: pageRange, IsDummy: true, Scale: 1}
}

// Width is the display width: page width reduced by the crop and scaled.
func (e PageFrameElement) Width() float64 {
	w := float64(e.Page.Width)
	if e.CropRect != nil {
		w *= e.CropRect.Width
	}
	return w * e.Scale
}

// Height is the display height: page height reduced by the crop and scaled.
func (e PageFrameElement) Height() float64 {
	h := float64(e.Page.Height)
	if e.CropRect != nil {
		h *= e.CropRect.Height
	}
	return h * e.Scale
}

// DisplaySize returns the display dimensions.
func (e PageFrameElement) DisplaySize() Size {
	return NewSize(e.Width(), e.Height())
}

// RawSize returns the cropped dimensions before per-element scaling.
func (e PageFrameElement) RawSize() Size {
	w := float64(e.Page.Width)
	h := float64(e.Page.Height)
	if e.CropRect != nil {
		w *= e.CropRect.Width
		h *= e.CropRect.Height
	}
	return NewSize(w, h)
}

// PageIndex returns the backing page's index.
func (e PageFrameElement) PageIndex() int {
	return e.Page.Index
}

// IsLandscape reports whether the backing page is landscape.
func (e PageFrameElement) IsLandscape() bool {
	return e.Page.IsLandscape()
}

// PageFrame is one navigable screen of content: one full page, one half of
// a split page, or two paired pages. Frames are ephemeral; the builder
// recomputes them on every request and callers own the result.
type PageFrame struct {
	Elements   []PageFrameElement // always 1 or 2 entries, in display order
	FrameRange PageRange
	Direction  int     // +1 LTR, -1 RTL
	Angle      float64 // rotation in degrees, filled in by the renderer path
	Scale      float64 // stretch scale, filled in by the renderer path
	Size       Size    // aggregate content size before stretch
}

// SinglePageFrame builds a frame holding one element.
func SinglePageFrame(element PageFrameElement, direction int) *PageFrame {
	return &PageFrame{
		Elements:   []PageFrameElement{element},
		FrameRange: element.PageRange,
		Direction:  direction,
		Scale:      1,
		Size:       element.DisplaySize(),
	}
}

// DoublePageFrame builds a frame pairing two elements. The elements are
// stored in display order, so RTL reverses them. Per-element scales are
// assigned from the wide-page stretch mode before the aggregate size is
// computed.
func DoublePageFrame(e1, e2 PageFrameElement, direction int, stretch WidePageStretch) *PageFrame {
	scales := CalculateWidePageScales([]Size{e1.RawSize(), e2.RawSize()}, stretch)
	e1.Scale = scales[0]
	e2.Scale = scales[1]

	frameRange, ok := MergeRanges(e1.PageRange, e2.PageRange)
	if !ok {
		frameRange = e1.PageRange
	}

	size := NewSize(e1.Width()+e2.Width(), math.Max(e1.Height(), e2.Height()))

	elements := []PageFrameElement{e1, e2}
	if direction < 0 {
		elements[0], elements[1] = elements[1], elements[0]
	}

	return &PageFrame{
		Elements:   elements,
		FrameRange: frameRange,
		Direction:  direction,
		Scale:      1,
		Size:       size,
	}
}

// IsSingle reports whether the frame holds one element.
func (f *PageFrame) IsSingle() bool {
	return len(f.Elements) == 1
}

// IsDouble reports whether the frame holds two elements.
func (f *PageFrame) IsDouble() bool {
	return len(f.Elements) == 2
}

// Contains reports whether the position lies within the frame's range.
func (f *PageFrame) Contains(position PagePosition) bool {
	return f.FrameRange.Contains(position)
}

// ContainsIndex reports whether the page index lies within the frame's range.
func (f *PageFrame) ContainsIndex(index int) bool {
	return f.FrameRange.ContainsIndex(index)
}

// FirstElement returns the first element in display order.
func (f *PageFrame) FirstElement() *PageFrameElement {
	if len(f.Elements) == 0 {
		return nil
	}
	return &f.Elements[0]
}

// SecondElement returns the second element in display order, or nil.
func (f *PageFrame) SecondElement() *PageFrameElement {
	if len(f.Elements) < 2 {
		return nil
	}
	return &f.Elements[1]
}

// StartIndex returns the first physical page index covered by the frame.
func (f *PageFrame) StartIndex() int {
	return f.FrameRange.StartIndex()
}

// EndIndex returns the last physical page index covered by the frame.
func (f *PageFrame) EndIndex() int {
	return f.FrameRange.EndIndex()
}

// PageIndices lists the indices of the real (non-dummy) pages in the frame.
func (f *PageFrame) PageIndices() []int {
	indices := make([]int, 0, len(f.Elements))
	for _, e := range f.Elements {
		if !e.IsDummy {
			indices = append(indices, e.PageIndex())
		}
	}
	return indices
}

// AspectRatio returns the aggregate content aspect ratio.
func (f *PageFrame) AspectRatio() float64 {
	return f.Size.AspectRatio()
}

// IsLandscape reports whether the aggregate content is landscape.
func (f *PageFrame) IsLandscape() bool {
	return f.Size.IsLandscape()
}
