package main

// Page is one physical page: an image file on disk or inside an archive.
// Pages are produced by the page source and are read-only afterwards;
// the layout engine never loads pixels itself.
type Page struct {
	Index       int     // position in the book, 0-based
	Path        string  // file path, or the archive path for archive entries
	InnerPath   string  // entry path within the archive, empty for plain files
	Name        string  // display name (base file name)
	Size        int64   // file size in bytes, 0 if unknown
	Width       int     // pixel width, 0 if unknown
	Height      int     // pixel height, 0 if unknown
	AspectRatio float64 // derived once at construction
}

// NewPage creates a page with known pixel dimensions.
func NewPage(index int, path, innerPath, name string, size int64, width, height int) Page {
	return Page{
		Index:       index,
		Path:        path,
		InnerPath:   innerPath,
		Name:        name,
		Size:        size,
		Width:       width,
		Height:      height,
		AspectRatio: pageAspectRatio(width, height),
	}
}

// PlaceholderPage creates a page whose dimensions are not known yet.
// Its aspect ratio is 1.0 so it is never treated as wide or split.
func PlaceholderPage(index int, path, innerPath, name string) Page {
	return Page{
		Index:       index,
		Path:        path,
		InnerPath:   innerPath,
		Name:        name,
		AspectRatio: 1.0,
	}
}

func pageAspectRatio(width, height int) float64 {
	if height > 0 {
		return float64(width) / float64(height)
	}
	return 1.0
}

// IsLandscape reports whether the page is wider than tall.
func (p Page) IsLandscape() bool {
	return p.Width > p.Height
}

// IsPortrait reports whether the page is at least as tall as wide.
func (p Page) IsPortrait() bool {
	return p.Height >= p.Width
}

// HasValidSize reports whether both pixel dimensions are known.
func (p Page) HasValidSize() bool {
	return p.Width > 0 && p.Height > 0
}

// SizeStruct returns the pixel dimensions as a Size.
func (p Page) SizeStruct() Size {
	return NewSize(float64(p.Width), float64(p.Height))
}

// WithSize returns a copy of the page with updated pixel dimensions.
func (p Page) WithSize(width, height int) Page {
	p.Width = width
	p.Height = height
	p.AspectRatio = pageAspectRatio(width, height)
	return p
}

// ShouldSplit reports whether the page exceeds the divide threshold,
// i.e. it is wide enough to display as two sequential halves.
func (p Page) ShouldSplit(dividePageRate float64) bool {
	return p.AspectRatio > dividePageRate
}
