package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// Gap between paired pages, in pre-stretch pixels
	imageGap = 10
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

// Renderer handles all drawing operations
type Renderer struct {
	viewState      ViewState
	helpFontSource *text.GoTextFaceSource
}

// NewRenderer creates a new Renderer
func NewRenderer(viewState ViewState) *Renderer {
	// Initialize font source with lightweight goregular
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatal(err)
	}

	return &Renderer{
		viewState:      viewState,
		helpFontSource: s,
	}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()

	content := r.viewState.GetFrameContent()
	if content != nil && content.Frame != nil {
		r.drawFrame(screen, content)
	}

	if r.viewState.IsShowingInfo() {
		r.drawInfoDisplay(screen)
	}

	if r.viewState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.viewState.IsInPageInputMode() {
		r.drawPageInputOverlay(screen)
	}

	if r.viewState.GetOverlayMessage() != "" && time.Since(r.viewState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

/// croppedElementImage returns the drawable image of one frame element:
// the full page image, or the half selected by the element's crop.
func croppedElementImage(element PageFrameElement, img *ebiten.Image) *ebiten.Image {
	if img == nil {
		return nil
	}
	if element.CropRect == nil || element.CropRect.IsFull() {
		return img
	}
	rect := element.CropRect.PixelRect(img.Bounds().Dx(), img.Bounds().Dy())
	return img.SubImage(rect.Add(img.Bounds().Min)).(*ebiten.Image)
}

// composeFrameImage renders the frame's elements side by side into one
// image: each element cropped, scaled by its equalization factor, and
// vertically centered. A gap separates paired pages.
func (r *Renderer) composeFrameImage(content *FrameContent) *ebiten.Image {
	frame := content.Frame

	type placed struct {
		img   *ebiten.Image
		scale float64
		w, h  float64
	}

	var parts []placed
	totalW, maxH := 0.0, 0.0
	for i, element := range frame.Elements {
		if element.IsDummy {
			continue
		}
		var img *ebiten.Image
		if i < len(content.Images) {
			img = content.Images[i]
		}
		img = croppedElementImage(element, img)
		if img == nil {
			img = CreateErrorImage(400, 600, element.Page.Name, "missing image")
		}

		w := float64(img.Bounds().Dx()) * element.Scale
		h := float64(img.Bounds().Dy()) * element.Scale
		parts = append(parts, placed{img: img, scale: element.Scale, w: w, h: h})
		totalW += w
		if h > maxH {
			maxH = h
		}
	}
	if len(parts) == 0 || totalW < 1 || maxH < 1 {
		return nil
	}
	if len(parts) > 1 {
		totalW += imageGap * float64(len(parts)-1)
	}

	combined := ebiten.NewImage(int(math.Ceil(totalW)), int(math.Ceil(maxH)))
	x := 0.0
	for _, p := range parts {
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(p.scale, p.scale)
		op.GeoM.Translate(x, maxH/2-p.h/2)
		combined.DrawImage(p.img, op)
		x += p.w + imageGap
	}
	return combined
}

// drawFrame draws the composed frame centered on screen, applying the
// frame's stretch scale and rotation.
func (r *Renderer) drawFrame(screen *ebiten.Image, content *FrameContent) {
	combined := r.composeFrameImage(content)
	if combined == nil {
		return
	}
	frame := content.Frame

	cw := float64(combined.Bounds().Dx())
	ch := float64(combined.Bounds().Dy())
	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-cw/2, -ch/2)
	if frame.Angle != 0 {
		op.GeoM.Rotate(frame.Angle * math.Pi / 180)
	}
	scale := frame.Scale
	if scale <= 0 {
		scale = 1
	}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(w/2, h/2)

	screen.DrawImage(combined, op)
}

// buildPageNumberString formats the current frame's page range, e.g.
// "12-13 / 200" for a spread or "12 / 200" for a single page.
func (r *Renderer) buildPageNumberString() string {
	content := r.viewState.GetFrameContent()
	total := r.viewState.GetTotalPagesCount()
	if content == nil || content.Frame == nil {
		return fmt.Sprintf("0 / %d", total)
	}

	start := content.Frame.StartIndex() + 1
	end := content.Frame.EndIndex() + 1
	if start == end {
		return fmt.Sprintf("%d / %d", start, total)
	}
	return fmt.Sprintf("%d-%d / %d", start, end, total)
}

// buildVirtualIndexString formats the position among virtual slots. It is
// empty unless split pages make the slot count differ from the page count.
func (r *Renderer) buildVirtualIndexString() string {
	virtualIndex, virtualTotal := r.viewState.GetVirtualPosition()
	if virtualTotal == r.viewState.GetTotalPagesCount() {
		return ""
	}
	return fmt.Sprintf(" (%d/%d)", virtualIndex, virtualTotal)
}

// buildLayoutStatusString summarizes the active layout settings for the
// info display, e.g. "double rtl wide".
func (r *Renderer) buildLayoutStatusString() string {
	ctx := r.viewState.GetFrameContext()

	parts := []string{ctx.PageMode.String(), ctx.ReadOrder.String()}
	if ctx.IsSingleMode() && ctx.IsSupportedDividePage {
		parts = append(parts, "divide")
	}
	if ctx.IsDoubleMode() && ctx.IsSupportedWidePage {
		parts = append(parts, "wide")
	}
	if ctx.AutoRotate != AutoRotateNone {
		parts = append(parts, "rot:"+ctx.AutoRotate.String())
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	infoFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   r.viewState.GetFontSize(),
	}

	infoText := fmt.Sprintf("%s%s  [%s]",
		r.buildPageNumberString(), r.buildVirtualIndexString(), r.buildLayoutStatusString())

	textWidth, textHeight := text.Measure(infoText, infoFont, 0)

	// Position at bottom right corner
	padding := 10.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding,
		textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)

	DrawText(screen, infoText, infoFont, textX, textY, colorWhite)
}

// getActionsList returns a sorted list of all actions that have bindings
func (r *Renderer) getActionsList() []string {
	keybindings := r.viewState.GetKeybindings()

	actions := make([]string, 0, len(keybindings))
	for action := range keybindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	padding := 40.0
	availableWidth := w - padding*2
	availableHeight := h - padding*2

	optimalFontSize, canFit := r.calculateOptimalFontSize(availableWidth, availableHeight)

	// If the window cannot fit even the minimum font size, show Fermat's joke
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	actions := r.getActionsList()
	keybindings := r.viewState.GetKeybindings()
	configStatus := r.viewState.GetConfigStatus()

	// Semi-transparent black background (lighter for more image transparency)
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, padding, padding, w-padding*2, h-padding*2, bgColorMedium)

	helpFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   optimalFontSize,
	}

	titleY := padding + 30
	DrawText(screen, "HELP:", helpFont, padding+20, titleY, colorWhite)

	currentY := titleY + optimalFontSize*2
	lineHeight := optimalFontSize * 1.5

	actionDescriptions := GetActionDescriptions()

	DrawText(screen, "Controls:", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	// Measure columns first so keys and descriptions line up
	maxActionWidth := 0.0
	maxKeysWidth := 0.0
	for _, action := range actions {
		keys := keybindings[action]
		if len(keys) == 0 {
			continue
		}
		actionWidth, _ := text.Measure(action, helpFont, 0)
		if actionWidth > maxActionWidth {
			maxActionWidth = actionWidth
		}
		keysWidth, _ := text.Measure(strings.Join(keys, ", "), helpFont, 0)
		if keysWidth > maxKeysWidth {
			maxKeysWidth = keysWidth
		}
	}

	actionColumnX := padding + 40
	arrowColumnX := actionColumnX + maxActionWidth + 20
	keysColumnX := arrowColumnX + 30
	descColumnX := keysColumnX + maxKeysWidth + 20

	for _, action := range actions {
		keys := keybindings[action]
		if len(keys) == 0 {
			continue
		}

		description := actionDescriptions[action]
		if description == "" {
			description = "No description available"
		}

		DrawText(screen, action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowColumnX, currentY, colorWhite)
		DrawText(screen, strings.Join(keys, ", "), helpFont, keysColumnX, currentY, colorYellow)
		DrawText(screen, description, helpFont, descColumnX, currentY, colorGray)

		currentY += lineHeight
	}

	currentY += lineHeight

	DrawText(screen, "System:", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight

	statusText := fmt.Sprintf("Config Status: %s", configStatus.Status)
	statusColor := colorGreen
	if configStatus.Status == "Warning" || configStatus.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, statusText, helpFont, padding+40, currentY, statusColor)
	currentY += lineHeight

	if len(configStatus.Warnings) > 0 {
		for i, warning := range configStatus.Warnings {
			if i >= 2 { // Limit to first 2 warnings to avoid clutter
				break
			}
			shortWarning := warning
			if len(shortWarning) > 50 {
				shortWarning = shortWarning[:47] + "..."
			}
			DrawText(screen, "• "+shortWarning, helpFont, padding+40, currentY, colorLightRed)
			currentY += lineHeight
		}
	}
}

// calculateRequiredDimensions calculates the width and height the help
// content needs at a given font size
func (r *Renderer) calculateRequiredDimensions(fontSize float64) (float64, float64) {
	actions := r.getActionsList()
	keybindings := r.viewState.GetKeybindings()
	configStatus := r.viewState.GetConfigStatus()

	tempFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   fontSize,
	}

	padding := 40.0
	lineHeight := fontSize * 1.5

	height := padding * 2
	height += fontSize * 2     // Title
	height += lineHeight * 1.5 // Controls title spacing

	actionLines := 0
	maxActionWidth := 0.0
	maxKeysWidth := 0.0
	maxDescWidth := 0.0

	actionDescriptions := GetActionDescriptions()

	for _, action := range actions {
		keys := keybindings[action]
		if len(keys) == 0 {
			continue
		}
		actionLines++

		actionWidth, _ := text.Measure(action, tempFont, 0)
		if actionWidth > maxActionWidth {
			maxActionWidth = actionWidth
		}

		keysWidth, _ := text.Measure(strings.Join(keys, ", "), tempFont, 0)
		if keysWidth > maxKeysWidth {
			maxKeysWidth = keysWidth
		}

		description := actionDescriptions[action]
		if description == "" {
			description = "No description available"
		}
		descWidth, _ := text.Measure(description, tempFont, 0)
		if descWidth > maxDescWidth {
			maxDescWidth = descWidth
		}
	}
	height += float64(actionLines) * lineHeight

	// System section
	height += lineHeight // Spacing
	height += lineHeight // "System:" title
	height += lineHeight // Config status line

	warningLines := len(configStatus.Warnings)
	if warningLines > 2 {
		warningLines = 2
	}
	height += float64(warningLines) * lineHeight

	// Width: left margin + action + spacing + arrow + spacing + keys + spacing + description + right margin
	maxWidth := 40 + maxActionWidth + 20 + 30 + 20 + maxKeysWidth + 20 + maxDescWidth + padding

	statusText := fmt.Sprintf("Config Status: %s", configStatus.Status)
	statusWidth, _ := text.Measure(statusText, tempFont, 0)
	if statusWidth+padding*2+80 > maxWidth {
		maxWidth = statusWidth + padding*2 + 80
	}

	return maxWidth, height
}

// calculateOptimalFontSize finds the largest font size whose help layout
// fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(availableWidth, availableHeight float64) (float64, bool) {
	maxFontSize := r.viewState.GetFontSize()
	minFontSize := 12.0

	minWidth, minHeight := r.calculateRequiredDimensions(minFontSize)
	if minWidth > availableWidth || minHeight > availableHeight {
		return minFontSize, false
	}

	maxWidth, maxHeight := r.calculateRequiredDimensions(maxFontSize)
	if maxWidth <= availableWidth && maxHeight <= availableHeight {
		return maxFontSize, true
	}

	// Binary search between the two
	low := minFontSize
	high := maxFontSize
	bestSize := minFontSize
	epsilon := 0.5

	for high-low > epsilon {
		mid := (low + high) / 2.0

		reqWidth, reqHeight := r.calculateRequiredDimensions(mid)

		if reqWidth <= availableWidth && reqHeight <= availableHeight {
			bestSize = mid
			low = mid
		} else {
			high = mid
		}
	}

	return bestSize, true
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorLight)

	jokeFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   16.0,
	}

	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, jokeFont, 0)
	subtitleWidth, _ := text.Measure(subtitle, jokeFont, 0)

	messageX := float64(w)/2 - messageWidth/2
	messageY := float64(h)/2 - messageHeight/2

	subtitleX := float64(w)/2 - subtitleWidth/2
	subtitleY := messageY + messageHeight + 10

	DrawText(screen, message, jokeFont, messageX, messageY, colorWhite)
	DrawText(screen, subtitle, jokeFont, subtitleX, subtitleY, colorGray)
}

func (r *Renderer) drawPageInputOverlay(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	inputFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   r.viewState.GetFontSize(),
	}

	rangeFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   r.viewState.GetFontSize() * 0.8,
	}

	totalPages := r.viewState.GetTotalPagesCount()

	inputText := fmt.Sprintf("Go to page: %s_", r.viewState.GetPageInputBuffer())
	rangeText := fmt.Sprintf("(1-%d)", totalPages)

	inputWidth, inputHeight := text.Measure(inputText, inputFont, 0)
	rangeWidth, rangeHeight := text.Measure(rangeText, rangeFont, 0)

	maxWidth := math.Max(inputWidth, rangeWidth)
	totalHeight := inputHeight + rangeHeight + 10

	padding := 20
	boxWidth := maxWidth + float64(padding*2)
	boxHeight := totalHeight + float64(padding*2)
	boxX := (float64(w) - boxWidth) / 2
	boxY := (float64(h) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)

	inputTextX := boxX + (boxWidth-inputWidth)/2
	DrawText(screen, inputText, inputFont, inputTextX, boxY+float64(padding), colorWhite)

	rangeTextX := boxX + (boxWidth-rangeWidth)/2
	DrawText(screen, rangeText, rangeFont, rangeTextX, boxY+float64(padding)+inputHeight+10, colorLightGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	messageFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   r.viewState.GetFontSize(),
	}

	textWidth, textHeight := text.Measure(r.viewState.GetOverlayMessage(), messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)

	DrawText(screen, r.viewState.GetOverlayMessage(), messageFont, boxX+padding, boxY+padding, colorWhite)
}
