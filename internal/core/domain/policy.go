package domain

// StreamPolicy is the `{streams: [...]}` block attached to a group or user.
type StreamPolicy struct {
	Streams []StreamGrant `yaml:"streams"`
}

// Policy maps directory groups and individual usernames to stream grants.
// A nil group entry is allowed and grants nothing.
type Policy struct {
	Groups map[string]*StreamPolicy `yaml:"groups"`
	Users  map[string]*StreamPolicy `yaml:"users"`
}

// StreamIDs returns every stream id referenced by the policy, without
// duplicates, in first-seen order (groups before users, map order otherwise).
func (p *Policy) StreamIDs() []StreamID {
	seen := make(map[StreamID]struct{})
	var ids []StreamID
	collect := func(entries map[string]*StreamPolicy) {
		for _, entry := range entries {
			if entry == nil {
				continue
			}
			for _, grant := range entry.Streams {
				if _, ok := seen[grant.ID]; ok {
					continue
				}
				seen[grant.ID] = struct{}{}
				ids = append(ids, grant.ID)
			}
		}
	}
	collect(p.Groups)
	collect(p.Users)
	return ids
}
