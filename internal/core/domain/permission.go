package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
)

type Action string

const (
	ActionRead        Action = "read"
	ActionEdit        Action = "edit"
	ActionChangeState Action = "changestate"
)

// FormatPermission renders a permission string as type:action:id.
func FormatPermission(resourceType string, action Action, resourceID string) string {
	return fmt.Sprintf("%s:%s:%s", resourceType, action, resourceID)
}

// ResourceType returns the part of a permission string before the first colon.
func ResourceType(permission string) string {
	if i := strings.IndexByte(permission, ':'); i >= 0 {
		return permission[:i]
	}
	return permission
}

// PermissionSet is an unordered collection of permission strings.
type PermissionSet struct {
	set *hashset.Set
}

func NewPermissionSet(permissions ...string) PermissionSet {
	s := PermissionSet{set: hashset.New()}
	s.Add(permissions...)
	return s
}

func (s PermissionSet) Add(permissions ...string) {
	for _, p := range permissions {
		s.set.Add(p)
	}
}

func (s PermissionSet) Contains(permission string) bool {
	return s.set.Contains(permission)
}

func (s PermissionSet) Len() int {
	return s.set.Size()
}

func (s PermissionSet) Empty() bool {
	return s.set.Empty()
}

func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	return PermissionSet{set: s.set.Union(other.set)}
}

func (s PermissionSet) Intersection(other PermissionSet) PermissionSet {
	return PermissionSet{set: s.set.Intersection(other.set)}
}

// Difference returns the permissions in s that are not in other.
func (s PermissionSet) Difference(other PermissionSet) PermissionSet {
	return PermissionSet{set: s.set.Difference(other.set)}
}

func (s PermissionSet) Equal(other PermissionSet) bool {
	return s.Len() == other.Len() && s.Difference(other).Empty()
}

// Slice returns the permissions sorted, so output and API payloads are stable.
func (s PermissionSet) Slice() []string {
	out := make([]string, 0, s.set.Size())
	for _, v := range s.set.Values() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}
