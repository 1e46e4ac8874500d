package main

// PagePosition addresses one half of one page: a physical page index plus
// a part (0 = left/full, 1 = right). Part 1 is only meaningful on pages
// the builder decided to split.
type PagePosition struct {
	Index int
	Part  int
}

// NewPagePosition creates a position, clamping part to {0, 1}.
func NewPagePosition(index, part int) PagePosition {
	if part < 0 {
		part = 0
	} else if part > 1 {
		part = 1
	}
	return PagePosition{Index: index, Part: part}
}

// FullPagePosition addresses the whole page (part 0).
func FullPagePosition(index int) PagePosition {
	return PagePosition{Index: index}
}

// LeftPosition addresses the left half of a page.
func LeftPosition(index int) PagePosition {
	return PagePosition{Index: index, Part: 0}
}

// RightPosition addresses the right half of a page.
func RightPosition(index int) PagePosition {
	return PagePosition{Index: index, Part: 1}
}

// IsLeft reports whether this is the left half (or a full page).
func (p PagePosition) IsLeft() bool {
	return p.Part == 0
}

// IsRight reports whether this is the right half.
func (p PagePosition) IsRight() bool {
	return p.Part == 1
}

// Next returns the following position. On a split page the left half
// advances to the right half; otherwise to the next page's first half.
func (p PagePosition) Next(isSplit bool) PagePosition {
	if isSplit && p.Part == 0 {
		return PagePosition{Index: p.Index, Part: 1}
	}
	return PagePosition{Index: p.Index + 1, Part: 0}
}

// Prev returns the preceding position, or false at the very beginning.
// prevIsSplit tells whether the previous page is itself split, which
// decides whether to land on its right half or its full page.
func (p PagePosition) Prev(isSplit, prevIsSplit bool) (PagePosition, bool) {
	if isSplit && p.Part == 1 {
		return PagePosition{Index: p.Index, Part: 0}, true
	}
	if p.Index > 0 {
		part := 0
		if prevIsSplit {
			part = 1
		}
		return PagePosition{Index: p.Index - 1, Part: part}, true
	}
	return PagePosition{}, false
}

// Compare orders positions lexicographically by (index, part).
func (p PagePosition) Compare(other PagePosition) int {
	switch {
	case p.Index < other.Index:
		return -1
	case p.Index > other.Index:
		return 1
	case p.Part < other.Part:
		return -1
	case p.Part > other.Part:
		return 1
	default:
		return 0
	}
}

// Before reports whether p orders strictly before other.
func (p PagePosition) Before(other PagePosition) bool {
	return p.Compare(other) < 0
}

// After reports whether p orders strictly after other.
func (p PagePosition) After(other PagePosition) bool {
	return p.Compare(other) > 0
}

// PageRange is the span of positions a frame covers, inclusive on both
// ends. An empty range has min > max.
type PageRange struct {
	Min PagePosition
	Max PagePosition
}

// NewPageRange creates a range from min to max.
func NewPageRange(min, max PagePosition) PageRange {
	return PageRange{Min: min, Max: max}
}

// SingleRange covers exactly one position.
func SingleRange(position PagePosition) PageRange {
	return PageRange{Min: position, Max: position}
}

// FullPageRange covers both halves of one page.
func FullPageRange(index int) PageRange {
	return PageRange{Min: LeftPosition(index), Max: RightPosition(index)}
}

// LeftHalfRange covers only the left half of a page.
func LeftHalfRange(index int) PageRange {
	return SingleRange(LeftPosition(index))
}

// RightHalfRange covers only the right half of a page.
func RightHalfRange(index int) PageRange {
	return SingleRange(RightPosition(index))
}

// IsOnePage reports whether the range spans a single physical page.
func (r PageRange) IsOnePage() bool {
	return r.Min.Index == r.Max.Index
}

// IsEmpty reports whether the range contains no positions.
func (r PageRange) IsEmpty() bool {
	return r.Min.After(r.Max)
}

// PageCount returns the number of physical pages in the range.
func (r PageRange) PageCount() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Max.Index - r.Min.Index + 1
}

// Contains reports whether the position lies within the range.
func (r PageRange) Contains(position PagePosition) bool {
	return !position.Before(r.Min) && !position.After(r.Max)
}

// ContainsIndex reports whether the physical page index lies within the range.
func (r PageRange) ContainsIndex(index int) bool {
	return index >= r.Min.Index && index <= r.Max.Index
}

// StartIndex returns the first physical page index of the range.
func (r PageRange) StartIndex() int {
	return r.Min.Index
}

// EndIndex returns the last physical page index of the range.
func (r PageRange) EndIndex() int {
	return r.Max.Index
}

// Extend grows the range to include the given position.
func (r PageRange) Extend(position PagePosition) PageRange {
	if position.Before(r.Min) {
		r.Min = position
	}
	if position.After(r.Max) {
		r.Max = position
	}
	return r
}

// MergeRanges combines the non-empty ranges into their bounding range.
// Returns false if every input is empty.
func MergeRanges(ranges ...PageRange) (PageRange, bool) {
	var merged PageRange
	found := false
	for _, r := range ranges {
		if r.IsEmpty() {
			continue
		}
		if !found {
			merged = r
			found = true
			continue
		}
		if r.Min.Before(merged.Min) {
			merged.Min = r.Min
		}
		if r.Max.After(merged.Max) {
			merged.Max = r.Max
		}
	}
	return merged, found
}
