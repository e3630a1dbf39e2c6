package services

import (
	"github.com/emirpasic/gods/sets/hashset"

	"graylogsync/internal/core/domain"
)

type namedGroup struct {
	name    string
	members *hashset.Set
}

// groupMembers indexes directory groups by name, in directory order. Groups
// that share a name (same cn in different subtrees) are merged.
func groupMembers(groups []domain.Group) []namedGroup {
	index := make(map[string]int, len(groups))
	var out []namedGroup
	for _, g := range groups {
		i, ok := index[g.Name]
		if !ok {
			i = len(out)
			index[g.Name] = i
			out = append(out, namedGroup{name: g.Name, members: hashset.New()})
		}
		for _, m := range g.Members {
			out[i].members.Add(m)
		}
	}
	return out
}
