package treerender

import (
	"sort"
	"strings"

	"github.com/temirov/readmetree/internal/utils"
)

// ReservedPrefix marks version-control entries that are never listed, whatever the exclusion set holds.
const ReservedPrefix = utils.GitDirectoryName

// ExclusionSet holds entry names that are never listed or descended into.
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet builds an ExclusionSet from literal names. Blank names are ignored.
func NewExclusionSet(names []string) ExclusionSet {
	set := ExclusionSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		set.names[trimmedName] = struct{}{}
	}
	return set
}

// Excludes reports whether an entry with the given name is omitted.
func (set ExclusionSet) Excludes(name string) bool {
	if strings.HasPrefix(name, ReservedPrefix) {
		return true
	}
	_, excluded := set.names[name]
	return excluded
}

// Names returns the literal names of the set in sorted order.
func (set ExclusionSet) Names() []string {
	names := make([]string, 0, len(set.names))
	for name := range set.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
