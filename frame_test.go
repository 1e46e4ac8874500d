package main

import (
	"image"
	"math"
	"strings"
	"testing"
)

const floatEps = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatEps
}

func makePage(index, width, height int) Page {
	return NewPage(index, "", "", "", 0, width, height)
}

func TestPageCreation(t *testing.T) {
	page := NewPage(0, "test.zip", "001.jpg", "001.jpg", 1024, 800, 600)

	if page.Index != 0 {
		t.Errorf("Expected index 0, got %d", page.Index)
	}
	if !page.IsLandscape() {
		t.Error("800x600 page should be landscape")
	}
	if page.IsPortrait() {
		t.Error("800x600 page should not be portrait")
	}
	if !almostEqual(page.AspectRatio, 800.0/600.0) {
		t.Errorf("Expected aspect ratio %.3f, got %.3f", 800.0/600.0, page.AspectRatio)
	}
	if !page.HasValidSize() {
		t.Error("Page with known dimensions should have a valid size")
	}
}

func TestPlaceholderPage(t *testing.T) {
	page := PlaceholderPage(3, "book.zip", "004.jpg", "004.jpg")

	if page.HasValidSize() {
		t.Error("Placeholder should not have a valid size")
	}
	if !almostEqual(page.AspectRatio, 1.0) {
		t.Errorf("Placeholder aspect ratio should be 1.0, got %.3f", page.AspectRatio)
	}
	if page.ShouldSplit(1.0) {
		t.Error("Placeholder must never split")
	}
	if page.IsLandscape() {
		t.Error("Placeholder must not classify as landscape")
	}
}

func TestPageShouldSplit(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		rate     float64
		expected bool
	}{
		{"Wide page above threshold", 1500, 1000, 1.0, true},
		{"Wide page above higher threshold", 1500, 1000, 1.2, true},
		{"Wide page below threshold", 1500, 1000, 1.6, false},
		{"Portrait page", 1000, 1500, 1.0, false},
		{"Square page at threshold", 1000, 1000, 1.0, false},
		{"Zero height", 1000, 0, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := makePage(0, tt.width, tt.height)
			if got := page.ShouldSplit(tt.rate); got != tt.expected {
				t.Errorf("ShouldSplit(%v) = %v, want %v", tt.rate, got, tt.expected)
			}
		})
	}
}

func TestPositionOrdering(t *testing.T) {
	tests := []struct {
		name     string
		a, b     PagePosition
		expected int
	}{
		{"Equal", NewPagePosition(3, 0), NewPagePosition(3, 0), 0},
		{"Index before", NewPagePosition(2, 1), NewPagePosition(3, 0), -1},
		{"Index after", NewPagePosition(4, 0), NewPagePosition(3, 1), 1},
		{"Part before", NewPagePosition(3, 0), NewPagePosition(3, 1), -1},
		{"Part after", NewPagePosition(3, 1), NewPagePosition(3, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.expected {
				t.Errorf("Compare = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPositionPartClamp(t *testing.T) {
	if p := NewPagePosition(1, 5); p.Part != 1 {
		t.Errorf("Part should clamp to 1, got %d", p.Part)
	}
	if p := NewPagePosition(1, -2); p.Part != 0 {
		t.Errorf("Part should clamp to 0, got %d", p.Part)
	}
}

func TestPositionNextPrev(t *testing.T) {
	pos := LeftPosition(3)

	// Split page: left -> right -> next page.
	next := pos.Next(true)
	if next.Index != 3 || next.Part != 1 {
		t.Errorf("Expected (3,1), got (%d,%d)", next.Index, next.Part)
	}
	next2 := next.Next(true)
	if next2.Index != 4 || next2.Part != 0 {
		t.Errorf("Expected (4,0), got (%d,%d)", next2.Index, next2.Part)
	}

	// Unsplit page: straight to the next page.
	next3 := pos.Next(false)
	if next3.Index != 4 || next3.Part != 0 {
		t.Errorf("Expected (4,0), got (%d,%d)", next3.Index, next3.Part)
	}

	// Backwards across a split predecessor lands on its right half.
	prev, ok := next3.Prev(false, true)
	if !ok || prev.Index != 3 || prev.Part != 1 {
		t.Errorf("Expected (3,1), got (%d,%d) ok=%v", prev.Index, prev.Part, ok)
	}

	// The very beginning has no predecessor.
	if _, ok := LeftPosition(0).Prev(false, false); ok {
		t.Error("Prev at the beginning should report false")
	}
}

func TestRangeContains(t *testing.T) {
	r := NewPageRange(NewPagePosition(2, 0), NewPagePosition(4, 1))

	if !r.Contains(NewPagePosition(3, 0)) {
		t.Error("Range should contain (3,0)")
	}
	if !r.Contains(NewPagePosition(2, 0)) || !r.Contains(NewPagePosition(4, 1)) {
		t.Error("Range should contain its endpoints")
	}
	if r.Contains(NewPagePosition(1, 1)) || r.Contains(NewPagePosition(5, 0)) {
		t.Error("Range should not contain positions outside it")
	}
	if r.PageCount() != 3 {
		t.Errorf("Expected 3 pages, got %d", r.PageCount())
	}
}

func TestRangeMerge(t *testing.T) {
	merged, ok := MergeRanges(FullPageRange(2), FullPageRange(4))
	if !ok {
		t.Fatal("Merge of non-empty ranges should succeed")
	}
	if merged.StartIndex() != 2 || merged.EndIndex() != 4 {
		t.Errorf("Expected span 2-4, got %d-%d", merged.StartIndex(), merged.EndIndex())
	}

	empty := NewPageRange(RightPosition(3), LeftPosition(3))
	if !empty.IsEmpty() {
		t.Error("min > max should be an empty range")
	}
	if _, ok := MergeRanges(empty); ok {
		t.Error("Merging only empty ranges should report false")
	}
}

func TestCropRectHalves(t *testing.T) {
	left := LeftHalfCrop()
	if !almostEqual(left.X, 0) || !almostEqual(left.Width, 0.5) {
		t.Errorf("Left half crop wrong: %+v", left)
	}

	right := RightHalfCrop()
	if !almostEqual(right.X, 0.5) || !almostEqual(right.Width, 0.5) {
		t.Errorf("Right half crop wrong: %+v", right)
	}

	if !FullCrop().IsFull() {
		t.Error("FullCrop should report IsFull")
	}
	if left.IsFull() {
		t.Error("Left half crop should not report IsFull")
	}
}

func TestCropRectPixelRect(t *testing.T) {
	got := RightHalfCrop().PixelRect(2000, 1000)
	want := image.Rect(1000, 0, 2000, 1000)
	if got != want {
		t.Errorf("PixelRect = %v, want %v", got, want)
	}
}

func TestCropRectCSSClipPath(t *testing.T) {
	clip := LeftHalfCrop().CSSClipPath()
	if !strings.Contains(clip, "inset") {
		t.Errorf("Expected inset() clip, got %s", clip)
	}
	if !strings.Contains(clip, "50.0%") {
		t.Errorf("Expected right inset of 50%%, got %s", clip)
	}
}

func TestElementDisplaySize(t *testing.T) {
	page := makePage(0, 2000, 1000)

	full := FullElement(page, FullPageRange(0))
	if !almostEqual(full.Width(), 2000) || !almostEqual(full.Height(), 1000) {
		t.Errorf("Full element size wrong: %v x %v", full.Width(), full.Height())
	}

	left := LeftHalfElement(page, LeftHalfRange(0))
	if !almostEqual(left.Width(), 1000) || !almostEqual(left.Height(), 1000) {
		t.Errorf("Half element size wrong: %v x %v", left.Width(), left.Height())
	}

	scaled := full
	scaled.Scale = 1.5
	if !almostEqual(scaled.Width(), 3000) {
		t.Errorf("Scaled element width wrong: %v", scaled.Width())
	}
	if !almostEqual(scaled.RawSize().Width, 2000) {
		t.Error("RawSize should ignore per-element scale")
	}
}

func TestSingleFrame(t *testing.T) {
	element := FullElement(makePage(0, 800, 1200), FullPageRange(0))
	frame := SinglePageFrame(element, 1)

	if !frame.IsSingle() || frame.IsDouble() {
		t.Error("Expected a single frame")
	}
	if !frame.ContainsIndex(0) || frame.ContainsIndex(1) {
		t.Error("Frame range should cover exactly page 0")
	}
}

func TestDoubleFrame(t *testing.T) {
	e1 := FullElement(makePage(0, 800, 1200), FullPageRange(0))
	e2 := FullElement(makePage(1, 800, 1200), FullPageRange(1))

	frame := DoublePageFrame(e1, e2, 1, WidePageStretchNone)

	if !frame.IsDouble() {
		t.Fatal("Expected a double frame")
	}
	if !frame.ContainsIndex(0) || !frame.ContainsIndex(1) || frame.ContainsIndex(2) {
		t.Error("Frame range should cover pages 0-1")
	}
	if !almostEqual(frame.Size.Width, 1600) || !almostEqual(frame.Size.Height, 1200) {
		t.Errorf("Aggregate size wrong: %+v", frame.Size)
	}
}

func TestDoubleFrameRTLOrder(t *testing.T) {
	e1 := FullElement(makePage(0, 800, 1200), FullPageRange(0))
	e2 := FullElement(makePage(1, 800, 1200), FullPageRange(1))

	frame := DoublePageFrame(e1, e2, -1, WidePageStretchNone)

	// RTL: the later page is displayed on the left.
	if frame.Elements[0].PageIndex() != 1 || frame.Elements[1].PageIndex() != 0 {
		t.Errorf("RTL element order wrong: %d, %d",
			frame.Elements[0].PageIndex(), frame.Elements[1].PageIndex())
	}
	if frame.StartIndex() != 0 || frame.EndIndex() != 1 {
		t.Error("Frame range must not depend on display order")
	}
}

func TestDoubleFrameHeightAlignment(t *testing.T) {
	e1 := FullElement(makePage(0, 800, 1200), FullPageRange(0))
	e2 := FullElement(makePage(1, 1600, 800), FullPageRange(1))

	frame := DoublePageFrame(e1, e2, 1, WidePageStretchUniformHeight)

	first := frame.FirstElement()
	second := frame.SecondElement()
	if first == nil || second == nil {
		t.Fatal("Expected two elements")
	}
	if !almostEqual(first.Height(), second.Height()) {
		t.Errorf("Heights should align: %v vs %v", first.Height(), second.Height())
	}
	if !almostEqual(frame.Size.Height, 1200) {
		t.Errorf("Aggregate height should be the max, got %v", frame.Size.Height)
	}
}

func TestFrameAspectRatio(t *testing.T) {
	element := FullElement(makePage(0, 2000, 1000), FullPageRange(0))
	frame := SinglePageFrame(element, 1)

	if !frame.IsLandscape() {
		t.Error("2000x1000 frame should be landscape")
	}
	if !almostEqual(frame.AspectRatio(), 2.0) {
		t.Errorf("Expected aspect ratio 2.0, got %v", frame.AspectRatio())
	}
}
