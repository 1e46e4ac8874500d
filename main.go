package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/afero"
)

var debugMode bool

func debugLog(format string, v ...any) {
	if debugMode {
		log.Printf("Debug: "+format, v...)
	}
}

// Game owns the page list, the layout builder, and all view state. It
// implements ebiten.Game plus the ViewState, InputActions, and InputState
// interfaces consumed by the renderer and the input handler.
type Game struct {
	source   *PageSource
	builder  *PageFrameBuilder
	position PagePosition

	config       Config
	configStatus ConfigLoadResult

	renderer          *Renderer
	inputHandler      *InputHandler
	keybindingManager *KeybindingManager

	fullscreen bool
	savedWinW  int
	savedWinH  int
	winW       int
	winH       int
	canvas     Size

	showHelp        bool
	showInfo        bool
	pageInputMode   bool
	pageInputBuffer string

	overlayMessage     string
	overlayMessageTime time.Time
}

// updateContext pushes the current config and canvas into the builder and
// renormalizes the position, since a mode change can strand it on a half
// page or in the middle of a pair.
func (g *Game) updateContext() {
	g.builder.SetContext(g.config.FrameContext(g.canvas))
	g.position = g.builder.FramePositionForIndex(g.position.Index)
}

// ebiten.Game

func (g *Game) Update() error {
	w, h := ebiten.WindowSize()
	if w != g.winW || h != g.winH {
		g.winW, g.winH = w, h
		g.canvas = NewSize(float64(w), float64(h))
		g.updateContext()
	}

	g.inputHandler.HandleInput()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// ViewState

func (g *Game) GetFrameContent() *FrameContent {
	frame := g.builder.BuildFrame(g.position)
	if frame == nil {
		return nil
	}
	g.builder.ApplyStretch(frame)

	images := make([]*ebiten.Image, len(frame.Elements))
	for i, element := range frame.Elements {
		if element.IsDummy {
			continue
		}
		images[i] = g.source.Image(element.Page.Index)
	}
	return &FrameContent{Frame: frame, Images: images}
}

func (g *Game) IsFullscreen() bool { return g.fullscreen }

func (g *Game) IsShowingHelp() bool { return g.showHelp }

func (g *Game) IsShowingInfo() bool { return g.showInfo }

func (g *Game) IsInPageInputMode() bool { return g.pageInputMode }

func (g *Game) GetPageInputBuffer() string { return g.pageInputBuffer }

func (g *Game) GetOverlayMessage() string { return g.overlayMessage }

func (g *Game) GetOverlayMessageTime() time.Time { return g.overlayMessageTime }

func (g *Game) GetTotalPagesCount() int { return g.builder.PageCount() }

// GetVirtualPosition reports the 1-based virtual slot of the current
// position and the total slot count. Split pages occupy two slots, so
// these differ from the physical page numbers when splitting is active.
func (g *Game) GetVirtualPosition() (int, int) {
	return g.builder.VirtualFromPosition(g.position) + 1, g.builder.TotalVirtualPages()
}
func (g *Game) GetFontSize() float64               { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() ConfigLoadResult  { return g.configStatus }
func (g *Game) GetKeybindings() map[string][]string {
	return g.keybindingManager.GetKeybindings()
}
func (g *Game) GetFrameContext() PageFrameContext { return g.builder.Context() }

// InputActions

func (g *Game) Exit() {
	g.saveCurrentWindowSize()
	g.source.StopPreload()
	os.Exit(0)
}

func (g *Game) ToggleHelp() { g.showHelp = !g.showHelp }
func (g *Game) ToggleInfo() { g.showInfo = !g.showInfo }

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if g.savedWinW > 0 && g.savedWinH > 0 {
			ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
		}
	}
}

func (g *Game) EnterPageInputMode() {
	g.pageInputMode = true
	g.pageInputBuffer = ""
}

func (g *Game) ExitPageInputMode() {
	g.pageInputMode = false
	g.pageInputBuffer = ""
}

func (g *Game) ProcessPageInput() {
	page, err := strconv.Atoi(g.pageInputBuffer)
	if err != nil || page < 1 || page > g.builder.PageCount() {
		g.ShowOverlayMessage(fmt.Sprintf("Invalid page: %s", g.pageInputBuffer))
		return
	}
	g.JumpToPage(page)
}

func (g *Game) UpdatePageInputBuffer(buffer string) {
	g.pageInputBuffer = buffer
}

func (g *Game) TogglePageMode() {
	if g.config.PageMode == "double" {
		g.config.PageMode = "single"
	} else {
		g.config.PageMode = "double"
	}
	g.updateContext()
	g.ShowOverlayMessage("Page mode: " + g.config.PageMode)
	saveConfig(g.config)
}

func (g *Game) ToggleReadingDirection() {
	if g.config.ReadOrder == "rtl" {
		g.config.ReadOrder = "ltr"
	} else {
		g.config.ReadOrder = "rtl"
	}
	g.updateContext()
	g.ShowOverlayMessage("Read order: " + g.config.ReadOrder)
	saveConfig(g.config)
}

func (g *Game) ToggleDividePage() {
	g.config.DividePage = !g.config.DividePage
	g.updateContext()
	g.ShowOverlayMessage(fmt.Sprintf("Divide wide pages: %t", g.config.DividePage))
	saveConfig(g.config)
}

func (g *Game) ToggleWidePage() {
	g.config.WidePage = !g.config.WidePage
	g.updateContext()
	g.ShowOverlayMessage(fmt.Sprintf("Standalone wide pages: %t", g.config.WidePage))
	saveConfig(g.config)
}

func (g *Game) ToggleSingleFirst() {
	g.config.SingleFirst = !g.config.SingleFirst
	g.updateContext()
	g.ShowOverlayMessage(fmt.Sprintf("Standalone first page: %t", g.config.SingleFirst))
	saveConfig(g.config)
}

func (g *Game) ToggleSingleLast() {
	g.config.SingleLast = !g.config.SingleLast
	g.updateContext()
	g.ShowOverlayMessage(fmt.Sprintf("Standalone last page: %t", g.config.SingleLast))
	saveConfig(g.config)
}

var stretchModeCycle = []string{"none", "uniform", "uniformToFill", "uniformToVertical", "uniformToHorizontal", "fill"}

var autoRotateCycle = []string{"none", "left", "right", "auto"}

var widePageStretchCycle = []string{"none", "uniformHeight", "uniformWidth"}

func cycleSetting(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (g *Game) CycleStretchMode() {
	g.config.StretchMode = cycleSetting(stretchModeCycle, g.config.StretchMode)
	g.updateContext()
	g.ShowOverlayMessage("Stretch: " + g.config.StretchMode)
	saveConfig(g.config)
}

func (g *Game) CycleAutoRotate() {
	g.config.AutoRotate = cycleSetting(autoRotateCycle, g.config.AutoRotate)
	g.updateContext()
	g.ShowOverlayMessage("Auto-rotate: " + g.config.AutoRotate)
	saveConfig(g.config)
}

func (g *Game) CycleWidePageStretch() {
	g.config.WidePageStretch = cycleSetting(widePageStretchCycle, g.config.WidePageStretch)
	g.updateContext()
	g.ShowOverlayMessage("Pair sizing: " + g.config.WidePageStretch)
	saveConfig(g.config)
}

func (g *Game) CycleSortMethod() {
	g.config.SortMethod = (g.config.SortMethod + 1) % 3

	// Remember the page under the cursor so the view doesn't jump
	currentKey := ""
	if page, ok := g.builder.GetPage(g.position.Index); ok {
		currentKey = sortKey(page)
	}

	pages := sortPages(g.source.Pages(), g.config.SortMethod)
	for i := range pages {
		pages[i].Index = i
	}
	g.source.SetPages(pages)
	g.builder.SetPages(pages)

	g.position = FullPagePosition(0)
	for _, p := range pages {
		if sortKey(p) == currentKey {
			g.position = g.builder.FramePositionForIndex(p.Index)
			break
		}
	}

	g.ShowOverlayMessage("Sort: " + getSortMethodName(g.config.SortMethod))
	saveConfig(g.config)
}

func (g *Game) NavigateNext() {
	next, ok := g.builder.NextFramePosition(g.position)
	if !ok {
		return
	}
	g.position = next
	g.source.StartPreload(next.Index, NavigationForward)
}

func (g *Game) NavigatePrevious() {
	prev, ok := g.builder.PrevFramePosition(g.position)
	if !ok {
		return
	}
	g.position = prev
	g.source.StartPreload(prev.Index, NavigationBackward)
}

func (g *Game) JumpToPage(page int) {
	if page < 1 {
		page = 1
	}
	if total := g.builder.PageCount(); page > total {
		page = total
	}
	g.position = g.builder.FramePositionForIndex(page - 1)
	g.source.StartPreload(g.position.Index, NavigationJump)
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

func (g *Game) PageCount() int {
	return g.builder.PageCount()
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		// Save the size from before fullscreen
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		w, h := ebiten.WindowSize()
		g.config.WindowWidth = w
		g.config.WindowHeight = h
	}
	saveConfig(g.config)
}

func main() {
	flag.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flag.Parse()

	if err := InitGraphics(); err != nil {
		log.Printf("Warning: Failed to initialize text rendering: %v", err)
	}

	configResult := loadConfig()
	config := configResult.Config

	fs := afero.NewOsFs()

	pages, err := CollectPages(fs, flag.Args(), config.SortMethod)
	if err != nil {
		log.Fatal(err)
	}
	if len(pages) == 0 {
		log.Fatal("no image files specified")
	}
	pages = ScanPageSizes(fs, pages)

	source := NewPageSourceWithPreload(fs, config.CacheSize, config.PreloadCount, config.PreloadEnabled)
	source.SetPages(pages)

	canvas := NewSize(float64(config.WindowWidth), float64(config.WindowHeight))
	builder := NewPageFrameBuilder(pages, config.FrameContext(canvas))

	g := &Game{
		source:       source,
		builder:      builder,
		position:     FullPagePosition(0),
		config:       config,
		configStatus: configResult,
		winW:         config.WindowWidth,
		winH:         config.WindowHeight,
		canvas:       canvas,
	}
	g.keybindingManager = NewKeybindingManager(config.Keybindings)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager)
	g.renderer = NewRenderer(g)

	source.StartPreload(0, NavigationForward)

	ebiten.SetWindowTitle("yomu")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if config.Fullscreen {
		g.fullscreen = true
		g.savedWinW, g.savedWinH = config.WindowWidth, config.WindowHeight
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
