// Package admin answers whether a Telegram user is a configured administrator.
package admin

import "slices"

// AllowList is an immutable set of administrator user IDs.
type AllowList struct {
	ids map[int64]struct{}
}

// NewAllowList builds an AllowList from configured IDs. Duplicates are ignored.
func NewAllowList(ids []int64) *AllowList {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return &AllowList{ids: set}
}

// IsAdmin reports whether userID is on the list. A nil list contains nobody.
func (a *AllowList) IsAdmin(userID int64) bool {
	if a == nil {
		return false
	}

	_, ok := a.ids[userID]
	return ok
}

// IDs returns the configured IDs in ascending order.
func (a *AllowList) IDs() []int64 {
	if a == nil {
		return nil
	}

	ids := make([]int64, 0, len(a.ids))
	for id := range a.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Len returns the number of administrators.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.ids)
}
