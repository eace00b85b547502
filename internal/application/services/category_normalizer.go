package services

import (
	"strings"
)

// NormalizedCategory is the result of resolving a raw request category
type NormalizedCategory struct {
	// Raw is the category exactly as the client sent it
	Raw string

	// Canonical is the catalog category key used for exact matching
	Canonical string

	// Keywords are substring matchers for listing titles and skills
	Keywords []string

	// FuzzyKeywords are broader synonyms used by the widened tiers
	FuzzyKeywords []string

	// Known reports whether the raw category resolved to a dictionary
	// entry; unknown categories pass through with minimal keywords
	Known bool
}

// CategoryEntry defines one canonical category: its aliases and the
// keyword sets the locator tiers match against
type CategoryEntry struct {
	Canonical     string
	Aliases       []string
	Keywords      []string
	FuzzyKeywords []string
}

// CategoryNormalizer resolves free-text categories to canonical keys.
// The dictionary is fixed at construction; Normalize never mutates it.
type CategoryNormalizer struct {
	byAlias map[string]*CategoryEntry
	fuzzy   []string
}

// DefaultCategoryEntries is the built-in home-services dictionary
func DefaultCategoryEntries() []CategoryEntry {
	return []CategoryEntry{
		{
			Canonical: "cleaning",
			Aliases:   []string{"cleaner", "cleaners", "house cleaning", "home cleaning", "deep cleaning", "housekeeping"},
			Keywords:  []string{"cleaning", "cleaner", "housekeeping", "laundry", "fumigation"},
		},
		{
			Canonical: "plumbing",
			Aliases:   []string{"plumber", "plumbers", "pipe repair", "drainage"},
			Keywords:  []string{"plumbing", "plumber", "pipe", "drainage", "tap", "sink"},
		},
		{
			Canonical: "electrical",
			Aliases:   []string{"electrician", "electricians", "wiring", "electric"},
			Keywords:  []string{"electrical", "electrician", "wiring", "socket", "lighting"},
		},
		{
			Canonical: "moving",
			Aliases:   []string{"mover", "movers", "relocation", "house moving", "transport"},
			Keywords:  []string{"moving", "mover", "relocation", "packing", "transport"},
		},
		{
			Canonical: "painting",
			Aliases:   []string{"painter", "painters", "paint work"},
			Keywords:  []string{"painting", "painter", "paint", "decorating"},
		},
		{
			Canonical: "carpentry",
			Aliases:   []string{"carpenter", "carpenters", "furniture", "woodwork"},
			Keywords:  []string{"carpentry", "carpenter", "furniture", "woodwork", "cabinet"},
		},
		{
			Canonical: "gardening",
			Aliases:   []string{"gardener", "gardeners", "landscaping", "lawn care"},
			Keywords:  []string{"gardening", "gardener", "landscaping", "lawn", "tree"},
		},
		{
			Canonical: "appliance_repair",
			Aliases:   []string{"appliance repair", "appliances", "fridge repair", "washing machine repair"},
			Keywords:  []string{"appliance", "fridge", "refrigerator", "washing machine", "microwave", "cooker"},
		},
		{
			Canonical: "pest_control",
			Aliases:   []string{"pest control", "fumigation", "exterminator"},
			Keywords:  []string{"pest", "fumigation", "exterminator", "termite", "cockroach"},
		},
	}
}

// defaultFuzzyKeywords are the broader terms every category widens to
// when the fuzzy tier runs
var defaultFuzzyKeywords = []string{"maintenance", "repair", "installation", "handyman", "general"}

// NewCategoryNormalizer builds a normalizer from the given dictionary.
// Entries without a fuzzy list inherit the shared broad synonyms.
func NewCategoryNormalizer(entries []CategoryEntry) *CategoryNormalizer {
	n := &CategoryNormalizer{
		byAlias: make(map[string]*CategoryEntry),
		fuzzy:   defaultFuzzyKeywords,
	}

	for i := range entries {
		entry := entries[i]
		n.byAlias[normalizeKey(entry.Canonical)] = &entry
		for _, alias := range entry.Aliases {
			n.byAlias[normalizeKey(alias)] = &entry
		}
	}

	return n
}

// NewDefaultCategoryNormalizer builds a normalizer with the built-in
// home-services dictionary
func NewDefaultCategoryNormalizer() *CategoryNormalizer {
	return NewCategoryNormalizer(DefaultCategoryEntries())
}

// Normalize resolves a raw category. Unknown categories pass through
// unchanged with the raw value as their only keyword, so the pipeline
// degrades gracefully instead of failing.
func (n *CategoryNormalizer) Normalize(raw string) NormalizedCategory {
	key := normalizeKey(raw)

	if entry, ok := n.byAlias[key]; ok {
		fuzzy := entry.FuzzyKeywords
		if len(fuzzy) == 0 {
			fuzzy = n.fuzzy
		}
		return NormalizedCategory{
			Raw:           raw,
			Canonical:     entry.Canonical,
			Keywords:      append([]string(nil), entry.Keywords...),
			FuzzyKeywords: append([]string(nil), fuzzy...),
			Known:         true,
		}
	}

	return NormalizedCategory{
		Raw:           raw,
		Canonical:     key,
		Keywords:      []string{key},
		FuzzyKeywords: append([]string(nil), n.fuzzy...),
		Known:         false,
	}
}

// normalizeKey lowercases and collapses separators so "House-Cleaning"
// and "house cleaning" resolve identically
func normalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.Join(strings.Fields(key), " ")
	return key
}
