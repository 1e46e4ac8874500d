package main

// PageMode selects how many pages a frame may hold.
type PageMode int

const (
	PageModeSingle PageMode = iota
	PageModeDouble
)

func (m PageMode) String() string {
	if m == PageModeDouble {
		return "double"
	}
	return "single"
}

// ReadOrder is the reading direction of the book.
type ReadOrder int

const (
	ReadOrderLTR ReadOrder = iota
	ReadOrderRTL
)

func (o ReadOrder) String() string {
	if o == ReadOrderRTL {
		return "rtl"
	}
	return "ltr"
}

// Direction returns +1 for LTR and -1 for RTL.
func (o ReadOrder) Direction() int {
	if o == ReadOrderRTL {
		return -1
	}
	return 1
}

// AutoRotateType controls content rotation relative to the viewport.
type AutoRotateType int

const (
	AutoRotateNone AutoRotateType = iota
	AutoRotateLeft
	AutoRotateRight
	AutoRotateAuto
)

func (t AutoRotateType) String() string {
	switch t {
	case AutoRotateLeft:
		return "left"
	case AutoRotateRight:
		return "right"
	case AutoRotateAuto:
		return "auto"
	default:
		return "none"
	}
}

// StretchMode controls how content is scaled to the viewport.
type StretchMode int

const (
	StretchNone StretchMode = iota
	StretchUniform
	StretchUniformToFill
	StretchUniformToVertical
	StretchUniformToHorizontal
	StretchFill
)

func (m StretchMode) String() string {
	switch m {
	case StretchNone:
		return "none"
	case StretchUniformToFill:
		return "uniformToFill"
	case StretchUniformToVertical:
		return "uniformToVertical"
	case StretchUniformToHorizontal:
		return "uniformToHorizontal"
	case StretchFill:
		return "fill"
	default:
		return "uniform"
	}
}

// WidePageStretch controls how two paired pages are aligned to each other.
type WidePageStretch int

const (
	WidePageStretchNone WidePageStretch = iota
	WidePageStretchUniformHeight
	WidePageStretchUniformWidth
)

func (s WidePageStretch) String() string {
	switch s {
	case WidePageStretchUniformHeight:
		return "uniformHeight"
	case WidePageStretchUniformWidth:
		return "uniformWidth"
	default:
		return "none"
	}
}

// PageFrameContext is an immutable snapshot of the display policy. When any
// field changes the whole context is replaced and the builder must be told
// via SetContext.
type PageFrameContext struct {
	PageMode               PageMode
	ReadOrder              ReadOrder
	IsSupportedDividePage  bool    // split wide pages in single mode
	IsSupportedWidePage    bool    // landscape pages stand alone in double mode
	IsSupportedSingleFirst bool    // the first page stands alone in double mode
	IsSupportedSingleLast  bool    // the last page stands alone in double mode
	DividePageRate         float64 // aspect ratio threshold for splitting
	AutoRotate             AutoRotateType
	StretchMode            StretchMode
	WidePageStretch        WidePageStretch
	CanvasSize             Size
}

// DefaultFrameContext returns the context used when no configuration is
// present: single page, LTR, wide pages standing alone, first page alone.
func DefaultFrameContext() PageFrameContext {
	return PageFrameContext{
		PageMode:               PageModeSingle,
		ReadOrder:              ReadOrderLTR,
		IsSupportedDividePage:  false,
		IsSupportedWidePage:    true,
		IsSupportedSingleFirst: true,
		IsSupportedSingleLast:  false,
		DividePageRate:         1.0,
		AutoRotate:             AutoRotateNone,
		StretchMode:            StretchUniform,
		WidePageStretch:        WidePageStretchNone,
		CanvasSize:             ZeroSize(),
	}
}

// Direction returns +1 for LTR and -1 for RTL.
func (c PageFrameContext) Direction() int {
	return c.ReadOrder.Direction()
}

// IsSingleMode reports whether frames hold one page at most.
func (c PageFrameContext) IsSingleMode() bool {
	return c.PageMode == PageModeSingle
}

// IsDoubleMode reports whether frames may pair two pages.
func (c PageFrameContext) IsDoubleMode() bool {
	return c.PageMode == PageModeDouble
}

// IsRTL reports right-to-left reading order.
func (c PageFrameContext) IsRTL() bool {
	return c.ReadOrder == ReadOrderRTL
}

// IsLTR reports left-to-right reading order.
func (c PageFrameContext) IsLTR() bool {
	return c.ReadOrder == ReadOrderLTR
}
