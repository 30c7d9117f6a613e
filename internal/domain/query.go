package domain

// EntryFilter is an entry query as a client expresses it: people by userid and entries by reference.
type EntryFilter struct {
	Native bool
	Shared bool
	// Authors and Timeline both select the target set, so at most one of them may be given.
	Authors   []string
	Timeline  string
	Tag       string
	Text      string
	InReplyTo string
	Limit     int
	Offset    int
}

// TextFilter is free text split into search terms. Phrases and Include must all appear in an entry, Exclude
// must not.
type TextFilter struct {
	Phrases []string
	Include []string
	Exclude []string
}

func (f TextFilter) Empty() bool {
	return len(f.Phrases) == 0 && len(f.Include) == 0 && len(f.Exclude) == 0
}

// EntryQuery is an EntryFilter with every name resolved to a storage id.
type EntryQuery struct {
	Native bool
	Shared bool
	// Authors is the explicit target set; nil means no restriction.
	Authors []int64
	// SubscriberID, when non zero, makes the subscriber's subscriptions the target set.
	SubscriberID int64
	Tag          string
	InReplyToID  int64
	// IDs restricts the result to the given entries when RestrictIDs is true; it is filled from the search index.
	IDs         []int64
	RestrictIDs bool
	Text        TextFilter
	Limit       int
	Offset      int
}

// Modes returns which halves of the union are wanted. Leaving both unset means both.
func (q EntryQuery) Modes() (native, shared bool) {
	if !q.Native && !q.Shared {
		return true, true
	}
	return q.Native, q.Shared
}
