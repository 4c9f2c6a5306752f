package catalog

import (
	"sort"
	"strings"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

// Default caps applied by the engine.
const (
	DefaultGroupItemLimit   = 10
	DefaultSuggestionLimit  = 3
	DefaultSubcategoryLimit = 3
)

// SuggestionType tells category suggestions from area suggestions.
type SuggestionType string

const (
	SuggestionCategory SuggestionType = "category"
	SuggestionArea     SuggestionType = "area"
)

// CategoryGroup is one row of the grouped catalogue view.
type CategoryGroup struct {
	Title       string           `json:"title" msgpack:"title"`
	DisplayName string           `json:"display_name" msgpack:"display_name"`
	Slug        string           `json:"slug" msgpack:"slug"`
	Count       int              `json:"count" msgpack:"count"`
	Items       []entity.Listing `json:"items" msgpack:"items"`
}

// SubcategoryCount counts listings of one category inside an area suggestion.
type SubcategoryCount struct {
	Name  string `json:"name" msgpack:"name"`
	Count int    `json:"count" msgpack:"count"`
}

// Suggestion is an autocomplete entry. Value is the raw filter value.
type Suggestion struct {
	Type          SuggestionType     `json:"type" msgpack:"type"`
	Display       string             `json:"display" msgpack:"display"`
	Value         string             `json:"value" msgpack:"value"`
	Count         int                `json:"count" msgpack:"count"`
	Subcategories []SubcategoryCount `json:"subcategories,omitempty" msgpack:"subcategories,omitempty"`
}

// Options tunes the engine caps. Non-positive values fall back to defaults.
type Options struct {
	GroupItemLimit   int
	SuggestionLimit  int
	SubcategoryLimit int
}

// Engine carries the caps used for grouping and suggestions. It holds no
// listing data and is safe for concurrent use.
type Engine struct {
	groupItemLimit   int
	suggestionLimit  int
	subcategoryLimit int
}

// NewEngine builds an engine with the given caps.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		groupItemLimit:   opts.GroupItemLimit,
		suggestionLimit:  opts.SuggestionLimit,
		subcategoryLimit: opts.SubcategoryLimit,
	}
	if e.groupItemLimit <= 0 {
		e.groupItemLimit = DefaultGroupItemLimit
	}
	if e.suggestionLimit <= 0 {
		e.suggestionLimit = DefaultSuggestionLimit
	}
	if e.subcategoryLimit <= 0 {
		e.subcategoryLimit = DefaultSubcategoryLimit
	}
	return e
}

var defaultEngine = NewEngine(Options{})

// GroupByCategory groups listings with the default caps.
func GroupByCategory(listings []entity.Listing) []CategoryGroup {
	return defaultEngine.GroupByCategory(listings)
}

// Suggest builds suggestions with the default caps.
func Suggest(term string, listings []entity.Listing, categories, locations []string, state FilterState) []Suggestion {
	return defaultEngine.Suggest(term, listings, categories, locations, state)
}

// GroupItemLimit returns the per-group item cap.
func (e *Engine) GroupItemLimit() int {
	return e.groupItemLimit
}

// GroupByCategory partitions listings by raw category, keeps the first items
// of each partition and orders groups by total count, largest first. Groups
// with equal counts keep the order in which their category first appeared.
func (e *Engine) GroupByCategory(listings []entity.Listing) []CategoryGroup {
	return groupByCategory(listings, e.groupItemLimit)
}

func groupByCategory(listings []entity.Listing, itemLimit int) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)

	for _, listing := range listings {
		key := listing.CategoryKey()
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, CategoryGroup{
				Title:       key,
				DisplayName: CategoryDisplayName(key),
				Slug:        Slug(key),
				Items:       make([]entity.Listing, 0, min(itemLimit, 4)),
			})
		}
		group := &groups[pos]
		group.Count++
		if len(group.Items) < itemLimit {
			group.Items = append(group.Items, listing)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

type candidate struct {
	suggestion Suggestion
	prefix     bool
}

// Suggest ranks category and area suggestions for term. Counts are taken over
// the listings that pass the active category and location filters, ignoring
// the text filter. Zero-count candidates are dropped. Category suggestions
// always come before area suggestions.
func (e *Engine) Suggest(term string, listings []entity.Listing, categories, locations []string, state FilterState) []Suggestion {
	suggestions := make([]Suggestion, 0)
	if strings.TrimSpace(term) == "" {
		return suggestions
	}

	inScope := scoped(listings, state)

	categoryCandidates := make([]candidate, 0)
	for _, raw := range distinct(categories) {
		display := CategoryDisplayName(raw)
		if !containsFold(display, term) {
			continue
		}
		count := 0
		for _, listing := range inScope {
			if listing.Category == raw {
				count++
			}
		}
		if count == 0 {
			continue
		}
		categoryCandidates = append(categoryCandidates, candidate{
			suggestion: Suggestion{Type: SuggestionCategory, Display: display, Value: FilterValue(raw), Count: count},
			prefix:     hasPrefixFold(display, term),
		})
	}

	areaCandidates := make([]candidate, 0)
	for _, raw := range distinct(locations) {
		display := LocationDisplayName(raw)
		if !containsFold(display, term) {
			continue
		}
		count, subcategories := e.countArea(inScope, raw)
		if count == 0 {
			continue
		}
		areaCandidates = append(areaCandidates, candidate{
			suggestion: Suggestion{
				Type:          SuggestionArea,
				Display:       display,
				Value:         FilterValue(raw),
				Count:         count,
				Subcategories: subcategories,
			},
			prefix: hasPrefixFold(display, term),
		})
	}

	suggestions = appendRanked(suggestions, categoryCandidates, e.suggestionLimit)
	suggestions = appendRanked(suggestions, areaCandidates, e.suggestionLimit)
	return suggestions
}

// countArea counts listings in area and tallies their categories in first-seen
// order.
func (e *Engine) countArea(listings []entity.Listing, area string) (int, []SubcategoryCount) {
	count := 0
	subcategories := make([]SubcategoryCount, 0)
	index := make(map[string]int)

	for _, listing := range listings {
		if listing.Area != area {
			continue
		}
		count++
		name := CategoryDisplayName(listing.Category)
		if pos, ok := index[name]; ok {
			subcategories[pos].Count++
			continue
		}
		index[name] = len(subcategories)
		subcategories = append(subcategories, SubcategoryCount{Name: name, Count: 1})
	}

	if len(subcategories) > e.subcategoryLimit {
		subcategories = subcategories[:e.subcategoryLimit]
	}
	return count, subcategories
}

func appendRanked(dst []Suggestion, candidates []candidate, limit int) []Suggestion {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].prefix != candidates[j].prefix {
			return candidates[i].prefix
		}
		return candidates[i].suggestion.Count > candidates[j].suggestion.Count
	})
	for i, c := range candidates {
		if i == limit {
			break
		}
		dst = append(dst, c.suggestion)
	}
	return dst
}

// distinct drops blank and repeated values, keeping first-seen order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
