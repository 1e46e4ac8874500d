package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// FrameContent is everything the renderer needs for one displayed frame:
// the layout plus the decoded image for each element, in display order.
type FrameContent struct {
	Frame  *PageFrame
	Images []*ebiten.Image
}

// ViewState provides read-only access to the view for the renderer
type ViewState interface {
	// Rendering data
	GetFrameContent() *FrameContent
	IsFullscreen() bool

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	IsInPageInputMode() bool
	GetPageInputBuffer() string
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetTotalPagesCount() int
	GetVirtualPosition() (int, int)
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetFrameContext() PageFrameContext
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Page input
	EnterPageInputMode()
	ExitPageInputMode()
	ProcessPageInput()
	UpdatePageInputBuffer(buffer string)

	// Layout settings
	TogglePageMode()
	ToggleReadingDirection()
	ToggleDividePage()
	ToggleWidePage()
	ToggleSingleFirst()
	ToggleSingleLast()
	CycleStretchMode()
	CycleAutoRotate()
	CycleWidePageStretch()
	CycleSortMethod()

	// Navigation
	NavigateNext()
	NavigatePrevious()
	JumpToPage(page int)

	// Messages
	ShowOverlayMessage(message string)

	// Common data access
	PageCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsInPageInputMode() bool
	GetPageInputBuffer() string
}
