package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy defines the interface for different page ordering strategies
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(pages []Page) []Page
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// sortKey is the string pages are ordered by: the file path, or the
// archive path plus the entry path for archive members.
func sortKey(p Page) string {
	if p.InnerPath == "" {
		return p.Path
	}
	return p.Path + ":" + p.InnerPath
}

// NaturalSortStrategy orders pages so numbered files read in sequence
// (page2 before page10)
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(pages []Page) []Page {
	if len(pages) == 0 {
		return []Page{}
	}

	result := make([]Page, len(pages))
	copy(result, pages)

	sort.Slice(result, func(i, j int) bool {
		return natural.Less(sortKey(result[i]), sortKey(result[j]))
	})

	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return SortNatural
}

// SimpleSortStrategy implements lexicographical ordering
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(pages []Page) []Page {
	if len(pages) == 0 {
		return []Page{}
	}

	result := make([]Page, len(pages))
	copy(result, pages)

	sort.Slice(result, func(i, j int) bool {
		return sortKey(result[i]) < sortKey(result[j])
	})

	return result
}

func (s *SimpleSortStrategy) Name() string {
	return "Simple"
}

func (s *SimpleSortStrategy) ID() int {
	return SortSimple
}

// EntryOrderSortStrategy preserves the order pages were discovered in
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(pages []Page) []Page {
	if len(pages) == 0 {
		return []Page{}
	}

	result := make([]Page, len(pages))
	copy(result, pages)

	return result
}

func (s *EntryOrderSortStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderSortStrategy) ID() int {
	return SortEntryOrder
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{} // Default fallback
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}
