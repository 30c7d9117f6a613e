package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidEntryRef = errors.New("invalid entry reference")

// EntryRef addresses an entry as <userid>/<entryid>, where entryid is the sequence number of the entry among
// those of its author.
type EntryRef struct {
	Author UserID
	Seq    int64
}

func ParseEntryRef(s, defaultHost string) (EntryRef, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return EntryRef{}, fmt.Errorf("%w %q: expected <userid>/<entryid>", ErrInvalidEntryRef, s)
	}

	author, err := ParseUserID(s[:i], defaultHost)
	if err != nil {
		return EntryRef{}, fmt.Errorf("%w: %w", ErrInvalidEntryRef, err)
	}

	seq, err := ParseSeq(s[i+1:])
	if err != nil {
		return EntryRef{}, err
	}
	return EntryRef{Author: author, Seq: seq}, nil
}

// ParseSeq parses the entryid part of a reference.
func ParseSeq(s string) (int64, error) {
	seq, err := strconv.ParseInt(s, 10, 64)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: entryid %q is not a positive integer", ErrInvalidEntryRef, s)
	}
	return seq, nil
}

func (r EntryRef) String() string {
	return r.Author.String() + "/" + strconv.FormatInt(r.Seq, 10)
}

type Entry struct {
	// ID is the storage key. It is never shown to clients, which address entries by Ref.
	ID     int64
	Seq    int64
	Author Person
	ApId   *url.URL

	Title     string
	Subtitle  string
	Summary   string
	Content   string
	Rights    string
	Generator string
	Tags      []string

	Contributors []Person
	// InReplyTo is nil when the entry starts a thread.
	InReplyTo *EntryRef
	// InReplyToApId is the IRI of the parent entry, used when the entry is federated.
	InReplyToApId *url.URL
	Published time.Time
	Updated   time.Time
}

func (e Entry) Ref() EntryRef {
	return EntryRef{Author: e.Author.UserID(), Seq: e.Seq}
}

// CanEdit is true for the author and every contributor.
func (e Entry) CanEdit(p Person) bool {
	if e.CanDelete(p) {
		return true
	}
	for _, c := range e.Contributors {
		if c.ID == p.ID && p.ID != 0 {
			return true
		}
	}
	return false
}

// CanDelete is true only for the author.
func (e Entry) CanDelete(p Person) bool {
	return p.ID != 0 && e.Author.ID == p.ID
}

// NewEntry carries what a client supplies when posting or editing an entry.
type NewEntry struct {
	Title        string
	Subtitle     string
	Summary      string
	Content      string
	Rights       string
	Generator    string
	Tags         []string
	Contributors []string
	InReplyTo    string
	// Patch, when set on an edit, is applied to the current content instead of replacing it with Content.
	Patch string
}

type Revision struct {
	ID      int64
	EntryID int64
	Editor  UserID
	// Diff is a patch in diff-match-patch text format that turns the previous content into the new one.
	Diff    string
	Created time.Time
}

// NormalizeTags trims, lowercases and deduplicates tags, dropping empty ones and a leading '#'.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
