package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"
	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func isArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// Page discovery

func listZipPages(fs afero.Fs, archivePath string) ([]Page, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := fs.Stat(archivePath)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}

	var pages []Page
	for _, zf := range zr.File {
		if !zf.FileInfo().IsDir() && isSupportedExt(zf.Name) {
			p := PlaceholderPage(0, archivePath, zf.Name, filepath.Base(zf.Name))
			p.Size = zf.FileInfo().Size()
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func listRarPages(fs afero.Fs, archivePath string) ([]Page, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var pages []Page
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if !header.IsDir && isSupportedExt(header.Name) {
			p := PlaceholderPage(0, archivePath, header.Name, filepath.Base(header.Name))
			p.Size = header.UnPackedSize
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func list7zPages(fs afero.Fs, archivePath string) ([]Page, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := fs.Stat(archivePath)
	if err != nil {
		return nil, err
	}

	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}

	var pages []Page
	for _, zf := range r.File {
		if !zf.FileInfo().IsDir() && isSupportedExt(zf.Name) {
			p := PlaceholderPage(0, archivePath, zf.Name, filepath.Base(zf.Name))
			p.Size = zf.FileInfo().Size()
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func listArchivePages(fs afero.Fs, archivePath string) ([]Page, error) {
	ext := strings.ToLower(filepath.Ext(archivePath))
	switch ext {
	case ".zip":
		return listZipPages(fs, archivePath)
	case ".rar":
		return listRarPages(fs, archivePath)
	case ".7z":
		return list7zPages(fs, archivePath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func plainFilePage(fs afero.Fs, path string) Page {
	p := PlaceholderPage(0, path, "", filepath.Base(path))
	if info, err := fs.Stat(path); err == nil {
		p.Size = info.Size()
	}
	return p
}

// sortPages orders a slice of pages using the configured sort strategy.
func sortPages(pages []Page, sortMethod int) []Page {
	strategy := GetSortStrategy(sortMethod)
	return strategy.Sort(pages)
}

// CollectPages gathers every image page from the given paths. Directories
// are walked recursively, archives are expanded to their image entries,
// and plain image files are taken as-is. Each directory and archive group
// is sorted separately, then page indices are assigned over the final
// list.
func CollectPages(fs afero.Fs, args []string, sortMethod int) ([]Page, error) {
	var list []Page
	for _, p := range args {
		info, err := fs.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			var dirPages []Page
			err := afero.Walk(fs, p, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if fi.IsDir() {
					return nil
				}
				if isSupportedExt(path) {
					dirPages = append(dirPages, plainFilePage(fs, path))
				} else if isArchiveExt(path) {
					archivePages, err := listArchivePages(fs, path)
					if err != nil {
						log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
						return nil
					}
					dirPages = append(dirPages, sortPages(archivePages, sortMethod)...)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			list = append(list, sortPages(dirPages, sortMethod)...)
		} else if isSupportedExt(p) {
			list = append(list, plainFilePage(fs, p))
		} else if isArchiveExt(p) {
			archivePages, err := listArchivePages(fs, p)
			if err != nil {
				log.Printf("Warning: Skipping problematic archive %s: %v", p, err)
				continue
			}
			list = append(list, sortPages(archivePages, sortMethod)...)
		}
	}

	for i := range list {
		list[i].Index = i
	}
	return list, nil
}

// Dimension scanning

func decodeConfigSize(r io.Reader, name string) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("reading dimensions of %s: %v", name, err)
	}
	return cfg.Width, cfg.Height, nil
}

func scanPlainFileSize(fs afero.Fs, page *Page) error {
	f, err := fs.Open(page.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, h, err := decodeConfigSize(f, page.Path)
	if err != nil {
		return err
	}
	*page = page.WithSize(w, h)
	return nil
}

func scanZipSizes(fs afero.Fs, archivePath string, targets map[string]*Page) error {
	f, err := fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := fs.Stat(archivePath)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return err
	}

	for _, zf := range zr.File {
		page, wanted := targets[zf.Name]
		if !wanted {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			log.Printf("Warning: Cannot read %s in %s: %v", zf.Name, archivePath, err)
			continue
		}
		w, h, err := decodeConfigSize(rc, zf.Name)
		rc.Close()
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		*page = page.WithSize(w, h)
	}
	return nil
}

func scan7zSizes(fs afero.Fs, archivePath string, targets map[string]*Page) error {
	f, err := fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := fs.Stat(archivePath)
	if err != nil {
		return err
	}

	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return err
	}

	for _, zf := range r.File {
		page, wanted := targets[zf.Name]
		if !wanted {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			log.Printf("Warning: Cannot read %s in %s: %v", zf.Name, archivePath, err)
			continue
		}
		w, h, err := decodeConfigSize(rc, zf.Name)
		rc.Close()
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		*page = page.WithSize(w, h)
	}
	return nil
}

// scanRarSizes walks the archive once in entry order; rar streams have no
// random access.
func scanRarSizes(fs afero.Fs, archivePath string, targets map[string]*Page) error {
	f, err := fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return err
	}

	remaining := len(targets)
	for remaining > 0 {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		page, wanted := targets[header.Name]
		if !wanted {
			continue
		}
		w, h, err := decodeConfigSize(r, header.Name)
		if err != nil {
			log.Printf("Warning: %v", err)
		} else {
			*page = page.WithSize(w, h)
		}
		remaining--
	}
	return nil
}

// ScanPageSizes reads the pixel dimensions of every page without decoding
// full images. Archives are opened once per archive rather than once per
// entry. Pages that cannot be read keep their placeholder 1:1 ratio so
// the layout still treats them as ordinary portrait pages.
func ScanPageSizes(fs afero.Fs, pages []Page) []Page {
	result := make([]Page, len(pages))
	copy(result, pages)

	// Archive path -> entry name -> page slot
	archives := make(map[string]map[string]*Page)

	for i := range result {
		if result[i].InnerPath == "" {
			if err := scanPlainFileSize(fs, &result[i]); err != nil {
				log.Printf("Warning: Cannot read dimensions of %s: %v", result[i].Path, err)
			}
			continue
		}
		entries, ok := archives[result[i].Path]
		if !ok {
			entries = make(map[string]*Page)
			archives[result[i].Path] = entries
		}
		entries[result[i].InnerPath] = &result[i]
	}

	for archivePath, targets := range archives {
		var err error
		switch strings.ToLower(filepath.Ext(archivePath)) {
		case ".zip":
			err = scanZipSizes(fs, archivePath, targets)
		case ".rar":
			err = scanRarSizes(fs, archivePath, targets)
		case ".7z":
			err = scan7zSizes(fs, archivePath, targets)
		}
		if err != nil {
			log.Printf("Warning: Cannot scan archive %s: %v", archivePath, err)
		}
	}

	return result
}

// Image loading

func decodeImageBytes(data []byte, name string) (*ebiten.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func readZipEntry(fs afero.Fs, archivePath, entryPath string) ([]byte, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := fs.Stat(archivePath)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}

	for _, zf := range zr.File {
		if zf.Name == entryPath {
			rc, err := zf.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readRarEntry(fs afero.Fs, archivePath, entryPath string) ([]byte, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func read7zEntry(fs afero.Fs, archivePath, entryPath string) ([]byte, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := fs.Stat(archivePath)
	if err != nil {
		return nil, err
	}

	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}

	for _, zf := range r.File {
		if zf.Name == entryPath {
			rc, err := zf.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func loadPageImage(fs afero.Fs, page Page) (*ebiten.Image, error) {
	if page.InnerPath == "" {
		f, err := fs.Open(page.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %v", page.Path, err)
		}
		return ebiten.NewImageFromImage(img), nil
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(page.Path)) {
	case ".zip":
		data, err = readZipEntry(fs, page.Path, page.InnerPath)
	case ".rar":
		data, err = readRarEntry(fs, page.Path, page.InnerPath)
	case ".7z":
		data, err = read7zEntry(fs, page.Path, page.InnerPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(page.Path))
	}
	if err != nil {
		return nil, err
	}
	return decodeImageBytes(data, page.InnerPath)
}

// NavigationDirection represents the direction of navigation, used to
// decide which neighboring pages to preload.
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// PreloadRequest represents a request to preload pages around an index
type PreloadRequest struct {
	Index     int
	Direction NavigationDirection
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize     int
	LoadedCount   int
	FailedCount   int
	LastDirection NavigationDirection
}

// PreloadManager loads neighboring pages into the cache in the background
type PreloadManager struct {
	requestChan chan PreloadRequest
	ctx         context.Context
	cancel      context.CancelFunc
	source      *PageSource
	mu          sync.RWMutex
	stats       PreloadStats
	maxPreload  int
	enabled     bool
}

// NewPreloadManager creates a new PreloadManager
func NewPreloadManager(source *PageSource, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan: make(chan PreloadRequest, 100),
		ctx:         ctx,
		cancel:      cancel,
		source:      source,
		maxPreload:  maxPreload,
		enabled:     true,
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.stats
}

// Stop stops the preload manager
func (pm *PreloadManager) Stop() {
	pm.cancel()
}

// StartPreload starts preloading pages from the current index in the
// specified direction. Pending requests are discarded first.
func (pm *PreloadManager) StartPreload(currentIdx int, direction NavigationDirection) {
	if !pm.IsEnabled() {
		return
	}

drain:
	for {
		select {
		case <-pm.requestChan:
			// discard pending requests
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Index: currentIdx, Direction: direction}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	pageCount := pm.source.PageCount()
	if pageCount == 0 {
		return
	}

	indices := pm.calculatePreloadIndices(req.Index, req.Direction, pageCount)

	for _, idx := range indices {
		select {
		case <-pm.ctx.Done():
			return
		default:
			pm.preloadPage(idx)
		}
	}
}

func (pm *PreloadManager) calculatePreloadIndices(currentIdx int, direction NavigationDirection, pageCount int) []int {
	var indices []int

	switch direction {
	case NavigationForward:
		for i := 1; i <= pm.maxPreload; i++ {
			idx := currentIdx + i
			if idx < pageCount {
				indices = append(indices, idx)
			}
		}
	case NavigationBackward:
		for i := 1; i <= pm.maxPreload; i++ {
			idx := currentIdx - i
			if idx >= 0 {
				indices = append(indices, idx)
			}
		}
	case NavigationJump:
		// Preload both directions from jump point
		half := pm.maxPreload / 2

		for i := 1; i <= half; i++ {
			idx := currentIdx + i
			if idx < pageCount {
				indices = append(indices, idx)
			}
		}

		for i := 1; i <= half; i++ {
			idx := currentIdx - i
			if idx >= 0 {
				indices = append(indices, idx)
			}
		}
	}

	return indices
}

func (pm *PreloadManager) preloadPage(idx int) {
	page, ok := pm.source.PageAt(idx)
	if !ok {
		return
	}
	cacheKey := sortKey(page)

	if _, ok := pm.source.cache.Get(cacheKey); ok {
		return // Already cached
	}

	img, err := loadPageImage(pm.source.fs, page)
	if err != nil {
		pm.mu.Lock()
		pm.stats.FailedCount++
		pm.mu.Unlock()
		debugLog("Preload failed for [%d] %s: %v", idx+1, cacheKey, err)

		// Cache an error image so retries don't hammer the disk
		img = CreateErrorImage(400, 300, page.Name, err.Error())
	}

	pm.source.cache.Add(cacheKey, img)

	pm.mu.Lock()
	pm.stats.LoadedCount++
	pm.mu.Unlock()

	debugLog("Preloaded [%d] %s (cache: %d items)", idx+1, cacheKey, pm.source.cache.Len())
}

// PageSource owns the page list and the decoded image cache. Pixels are
// loaded on demand and kept in an LRU cache keyed by the page's path so
// re-sorting the page list never invalidates cached images.
type PageSource struct {
	fs             afero.Fs
	pages          []Page
	cache          *lru.Cache[string, *ebiten.Image]
	mu             sync.RWMutex
	preloadManager *PreloadManager
}

func newImageCache(cacheSize int) *lru.Cache[string, *ebiten.Image] {
	evict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](cacheSize, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, evict)
	}
	return cache
}

// NewPageSource creates a PageSource without background preloading.
func NewPageSource(fs afero.Fs, cacheSize int) *PageSource {
	return &PageSource{
		fs:    fs,
		pages: []Page{},
		cache: newImageCache(cacheSize),
	}
}

// NewPageSourceWithPreload creates a PageSource with a preload worker.
func NewPageSourceWithPreload(fs afero.Fs, cacheSize, preloadCount int, preloadEnabled bool) *PageSource {
	s := NewPageSource(fs, cacheSize)
	s.preloadManager = NewPreloadManager(s, preloadCount)
	s.preloadManager.SetEnabled(preloadEnabled)
	return s
}

func (s *PageSource) SetPages(pages []Page) {
	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()
	// Cache keys are paths, so the cache survives re-sorting
	debugLog("SetPages: %d new pages, cache preserved (%d items)", len(pages), s.cache.Len())
}

func (s *PageSource) Pages() []Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pages
}

func (s *PageSource) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// PageAt returns the page at index if it exists.
func (s *PageSource) PageAt(idx int) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 0 || idx >= len(s.pages) {
		return Page{}, false
	}
	return s.pages[idx], true
}

func (s *PageSource) StartPreload(currentIdx int, direction NavigationDirection) {
	if s.preloadManager != nil {
		s.preloadManager.StartPreload(currentIdx, direction)
	}
}

func (s *PageSource) StopPreload() {
	if s.preloadManager != nil {
		s.preloadManager.Stop()
	}
}

func (s *PageSource) GetPreloadStats() PreloadStats {
	if s.preloadManager != nil {
		return s.preloadManager.GetStats()
	}
	return PreloadStats{}
}

// Image returns the decoded image for the page at idx, loading it on
// demand. Load failures yield an error placeholder rather than nil.
func (s *PageSource) Image(idx int) *ebiten.Image {
	page, ok := s.PageAt(idx)
	if !ok {
		return nil
	}
	cacheKey := sortKey(page)

	img, ok := s.cache.Get(cacheKey)
	if ok {
		debugLog("Cache HIT: %s (cache: %d items)", cacheKey, s.cache.Len())
		return img
	}

	img, err := loadPageImage(s.fs, page)
	if err != nil {
		log.Printf("Error: Failed to load page [%d/%d] %s: %v",
			idx+1, s.PageCount(), cacheKey, err)
		return CreateErrorImage(400, 300, page.Name, err.Error())
	}

	s.cache.Add(cacheKey, img)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Cache MISS: %s, loaded and cached (cache: %d items, memory: %dMB)",
		cacheKey, s.cache.Len(), mem.Alloc/1024/1024)

	return img
}
