package catalog

import (
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// SlugIndex resolves category slugs back to raw categories. When two raw
// categories share a slug the first one indexed wins.
type SlugIndex struct {
	trie *patricia.Trie
}

// NewSlugIndex indexes the non-blank raw categories in order.
func NewSlugIndex(categories []string) *SlugIndex {
	idx := &SlugIndex{trie: patricia.NewTrie()}
	for _, raw := range distinct(categories) {
		idx.trie.Insert(patricia.Prefix(Slug(raw)), raw)
	}
	return idx
}

// Lookup returns the raw category for slug.
func (i *SlugIndex) Lookup(slug string) (string, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", false
	}
	item := i.trie.Get(patricia.Prefix(slug))
	if item == nil {
		return "", false
	}
	raw, ok := item.(string)
	return raw, ok
}

// WithPrefix returns the raw categories whose slug starts with prefix, in
// slug order.
func (i *SlugIndex) WithPrefix(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0)
	_ = i.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		if raw, ok := item.(string); ok {
			out = append(out, raw)
		}
		return nil
	})
	return out
}
