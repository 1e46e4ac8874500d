package main

// PageFrameBuilder turns a page list and a display policy into renderable
// frames, and implements frame-level navigation. All methods are
// synchronous and never panic on out-of-range input; navigation returns
// ok=false at the sequence boundary and the virtual mapping clamps.
//
// SetPages and SetContext are the only mutation points. The builder is not
// goroutine-safe: confine it to one goroutine or guard it externally, or
// the split cache could drift from the page list.
type PageFrameBuilder struct {
	pages      []Page
	context    PageFrameContext
	splitCache []bool // splitCache[i] == pages[i].ShouldSplit(rate)
}

// NewPageFrameBuilder creates a builder for the given pages and context.
func NewPageFrameBuilder(pages []Page, context PageFrameContext) *PageFrameBuilder {
	b := &PageFrameBuilder{context: context}
	b.SetPages(pages)
	return b
}

// SetPages replaces the page list and rebuilds the split cache.
func (b *PageFrameBuilder) SetPages(pages []Page) {
	b.pages = pages
	b.rebuildSplitCache()
}

// SetContext replaces the display policy and rebuilds the split cache.
func (b *PageFrameBuilder) SetContext(context PageFrameContext) {
	b.context = context
	b.rebuildSplitCache()
}

// Context returns the current display policy snapshot.
func (b *PageFrameBuilder) Context() PageFrameContext {
	return b.context
}

func (b *PageFrameBuilder) rebuildSplitCache() {
	// Discard and recompute in full; no incremental patching.
	cache := make([]bool, len(b.pages))
	for i, p := range b.pages {
		cache[i] = p.ShouldSplit(b.context.DividePageRate)
	}
	b.splitCache = cache
}

// PageCount returns the number of physical pages.
func (b *PageFrameBuilder) PageCount() int {
	return len(b.pages)
}

// GetPage returns the page at index, or false when out of range.
func (b *PageFrameBuilder) GetPage(index int) (Page, bool) {
	if index < 0 || index >= len(b.pages) {
		return Page{}, false
	}
	return b.pages[index], true
}

// IsPageSplit reports whether the page at index displays as two halves.
// Splitting only happens in single mode with divide-page enabled.
func (b *PageFrameBuilder) IsPageSplit(index int) bool {
	if !b.context.IsSingleMode() || !b.context.IsSupportedDividePage {
		return false
	}
	if index < 0 || index >= len(b.splitCache) {
		return false
	}
	return b.splitCache[index]
}

// IsPageLandscape reports whether the page at index is landscape.
func (b *PageFrameBuilder) IsPageLandscape(index int) bool {
	if index < 0 || index >= len(b.pages) {
		return false
	}
	return b.pages[index].IsLandscape()
}

// BuildFrame returns the frame at the given position, or nil when the
// position's page index is past the end of the book.
func (b *PageFrameBuilder) BuildFrame(position PagePosition) *PageFrame {
	if position.Index < 0 || position.Index >= len(b.pages) {
		return nil
	}

	if b.context.IsDoubleMode() {
		return b.buildDoubleFrame(position)
	}
	return b.buildSingleFrame(position)
}

// buildSingleFrame shows one page, or one half of a split page. Which half
// comes first follows the reading order: RTL leads with the right half.
func (b *PageFrameBuilder) buildSingleFrame(position PagePosition) *PageFrame {
	page := b.pages[position.Index]

	if !b.IsPageSplit(position.Index) {
		element := FullElement(page, FullPageRange(position.Index))
		return SinglePageFrame(element, b.context.Direction())
	}

	leading := position.Part == 0
	showRight := leading == b.context.IsRTL()
	var element PageFrameElement
	if showRight {
		element = RightHalfElement(page, RightHalfRange(position.Index))
	} else {
		element = LeftHalfElement(page, LeftHalfRange(position.Index))
	}
	return SinglePageFrame(element, b.context.Direction())
}

// buildDoubleFrame pairs the page at position with its successor unless a
// standalone rule applies, in priority order: the current page is wide;
// there is no next page; the next page is wide (a landscape page always
// starts its own frame); the pair touches the first or last page while the
// corresponding single-first/single-last flag is set.
func (b *PageFrameBuilder) buildDoubleFrame(position PagePosition) *PageFrame {
	page := b.pages[position.Index]
	direction := b.context.Direction()

	standalone := func() *PageFrame {
		element := FullElement(page, FullPageRange(position.Index))
		return SinglePageFrame(element, direction)
	}

	if b.context.IsSupportedWidePage && page.IsLandscape() {
		return standalone()
	}

	nextIndex := position.Index + 1
	if nextIndex >= len(b.pages) {
		return standalone()
	}
	nextPage := b.pages[nextIndex]

	if b.context.IsSupportedWidePage && nextPage.IsLandscape() {
		return standalone()
	}

	isFirst := position.Index == 0 || nextIndex == 0
	isLast := position.Index == len(b.pages)-1 || nextIndex == len(b.pages)-1
	if (b.context.IsSupportedSingleFirst && isFirst) ||
		(b.context.IsSupportedSingleLast && isLast) {
		return standalone()
	}

	e1 := FullElement(page, FullPageRange(position.Index))
	e2 := FullElement(nextPage, FullPageRange(nextIndex))
	return DoublePageFrame(e1, e2, direction, b.context.WidePageStretch)
}

// shouldDisplayAlone checks the standalone rules for a single page viewed
// in isolation. Used when walking backwards; the forward path checks the
// current and next page together.
func (b *PageFrameBuilder) shouldDisplayAlone(index int) bool {
	if index < 0 || index >= len(b.pages) {
		return true
	}
	if b.context.IsSupportedWidePage && b.pages[index].IsLandscape() {
		return true
	}
	if b.context.IsSupportedSingleFirst && index == 0 {
		return true
	}
	if b.context.IsSupportedSingleLast && index == len(b.pages)-1 {
		return true
	}
	return false
}

// canFormDoublePage reports whether the pages at index and nextIndex would
// pair into one frame under the current policy.
func (b *PageFrameBuilder) canFormDoublePage(index, nextIndex int) bool {
	if index < 0 || index >= len(b.pages) || nextIndex < 0 || nextIndex >= len(b.pages) {
		return false
	}

	if b.context.IsSupportedWidePage &&
		(b.pages[index].IsLandscape() || b.pages[nextIndex].IsLandscape()) {
		return false
	}

	isFirst := index == 0 || nextIndex == 0
	isLast := index == len(b.pages)-1 || nextIndex == len(b.pages)-1
	if (b.context.IsSupportedSingleFirst && isFirst) ||
		(b.context.IsSupportedSingleLast && isLast) {
		return false
	}

	return true
}

// frameStep returns how many physical pages the frame starting at index
// consumes in double mode: 1 when a standalone rule applies, 2 otherwise.
// Mirrors buildDoubleFrame so navigation and construction agree.
func (b *PageFrameBuilder) frameStep(index int) int {
	if index < 0 || index >= len(b.pages) {
		return 1
	}
	if b.canFormDoublePage(index, index+1) {
		return 2
	}
	return 1
}

// NextFramePosition returns the position of the frame after current, or
// ok=false at the end of the book.
func (b *PageFrameBuilder) NextFramePosition(current PagePosition) (PagePosition, bool) {
	if b.context.IsDoubleMode() {
		next := current.Index + b.frameStep(current.Index)
		if next < len(b.pages) {
			return FullPagePosition(next), true
		}
		return PagePosition{}, false
	}

	if b.IsPageSplit(current.Index) && current.Part == 0 {
		return RightPosition(current.Index), true
	}
	if current.Index+1 < len(b.pages) {
		return FullPagePosition(current.Index + 1), true
	}
	return PagePosition{}, false
}

// PrevFramePosition returns the position of the frame before current, or
// ok=false at the beginning of the book. In double mode it reconstructs
// the pairing rules backwards without re-scanning the whole sequence.
func (b *PageFrameBuilder) PrevFramePosition(current PagePosition) (PagePosition, bool) {
	if !b.context.IsDoubleMode() {
		if b.IsPageSplit(current.Index) && current.Part == 1 {
			return LeftPosition(current.Index), true
		}
		if current.Index > 0 {
			prev := current.Index - 1
			if b.IsPageSplit(prev) {
				return RightPosition(prev), true
			}
			return FullPagePosition(prev), true
		}
		return PagePosition{}, false
	}

	if current.Index == 0 {
		return PagePosition{}, false
	}

	prev := current.Index - 1
	if b.shouldDisplayAlone(prev) {
		return FullPagePosition(prev), true
	}
	// The previous page may be the trailing half of a pair.
	if prev > 0 && b.canFormDoublePage(prev-1, prev) {
		return FullPagePosition(prev - 1), true
	}
	return FullPagePosition(prev), true
}

// splitActive reports whether the split cache participates in addressing.
func (b *PageFrameBuilder) splitActive() bool {
	return b.context.IsSingleMode() && b.context.IsSupportedDividePage
}

// TotalVirtualPages counts every addressable slot: one per page plus one
// extra per split page. Without splitting it equals the page count.
func (b *PageFrameBuilder) TotalVirtualPages() int {
	if !b.splitActive() {
		return len(b.pages)
	}
	total := len(b.pages)
	for _, split := range b.splitCache {
		if split {
			total++
		}
	}
	return total
}

// PositionFromVirtual maps a linear virtual index back to a position.
// Indices past the end clamp to the last valid position.
func (b *PageFrameBuilder) PositionFromVirtual(virtualIndex int) PagePosition {
	if virtualIndex < 0 {
		virtualIndex = 0
	}
	if !b.splitActive() {
		last := len(b.pages) - 1
		if last < 0 {
			last = 0
		}
		if virtualIndex > last {
			virtualIndex = last
		}
		return FullPagePosition(virtualIndex)
	}

	current := 0
	for index, split := range b.splitCache {
		slots := 1
		if split {
			slots = 2
		}
		if current+slots > virtualIndex {
			part := 0
			if split && virtualIndex > current {
				part = 1
			}
			return NewPagePosition(index, part)
		}
		current += slots
	}

	// Past the end: clamp to the last valid slot.
	last := len(b.pages) - 1
	if last < 0 {
		return PagePosition{}
	}
	if b.IsPageSplit(last) {
		return RightPosition(last)
	}
	return FullPagePosition(last)
}

// VirtualFromPosition maps a position to its linear virtual index.
func (b *PageFrameBuilder) VirtualFromPosition(position PagePosition) int {
	if !b.splitActive() {
		return position.Index
	}

	virtualIndex := 0
	for index, split := range b.splitCache {
		if index == position.Index {
			return virtualIndex + position.Part
		}
		if split {
			virtualIndex += 2
		} else {
			virtualIndex++
		}
	}
	return virtualIndex
}

// FramePositionForIndex returns the position of the frame that contains
// the given physical page, for jump-to-page input. Out-of-range indices
// clamp to the last page.
func (b *PageFrameBuilder) FramePositionForIndex(pageIndex int) PagePosition {
	if pageIndex >= len(b.pages) {
		last := len(b.pages) - 1
		if last < 0 {
			last = 0
		}
		return FullPagePosition(last)
	}
	if pageIndex < 0 {
		return PagePosition{}
	}

	if !b.context.IsDoubleMode() {
		return FullPagePosition(pageIndex)
	}

	if pageIndex == 0 || b.shouldDisplayAlone(pageIndex) {
		return FullPagePosition(pageIndex)
	}
	// When the preceding page pairs with this one, the frame starts there.
	if b.canFormDoublePage(pageIndex-1, pageIndex) {
		return FullPagePosition(pageIndex - 1)
	}
	return FullPagePosition(pageIndex)
}

// ApplyStretch fills in the frame's rotation, stretch scale, and final
// pixel size against the context's canvas. A degenerate canvas leaves the
// frame at identity scale and no rotation.
func (b *PageFrameBuilder) ApplyStretch(frame *PageFrame) {
	if frame == nil || b.context.CanvasSize.IsEmpty() {
		return
	}
	calc := NewContentSizeCalculator(b.context.CanvasSize, b.context.StretchMode, b.context.AutoRotate)
	layout := calc.Calculate(frame.Size)
	frame.Angle = layout.Rotation
	frame.Scale = layout.Scale
	frame.Size = layout.Size
}
