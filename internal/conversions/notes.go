package conversions

import (
	"fmt"
	"net/url"
	"strings"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
)

// Note is an entry received from another server. The IRIs still have to be resolved to local records.
type Note struct {
	Entry        domain.Entry
	AttributedTo *url.URL
	InReplyTo    *url.URL
}

// EntryToNote renders an entry as a public Note. inReplyTo and page may be nil.
func EntryToNote(e domain.Entry, inReplyTo, page *url.URL) vocab.ActivityStreamsNote {
	n := streams.NewActivityStreamsNote()

	id := streams.NewJSONLDIdProperty()
	id.SetIRI(e.ApId)
	n.SetJSONLDId(id)

	attributedTo := streams.NewActivityStreamsAttributedToProperty()
	attributedTo.AppendIRI(e.Author.ApId)
	n.SetActivityStreamsAttributedTo(attributedTo)

	to := streams.NewActivityStreamsToProperty()
	to.AppendIRI(federation.Public)
	n.SetActivityStreamsTo(to)

	if e.Title != "" {
		title := streams.NewActivityStreamsNameProperty()
		title.AppendXMLSchemaString(e.Title)
		n.SetActivityStreamsName(title)
	}

	if e.Summary != "" {
		summary := streams.NewActivityStreamsSummaryProperty()
		summary.AppendXMLSchemaString(e.Summary)
		n.SetActivityStreamsSummary(summary)
	}

	content := streams.NewActivityStreamsContentProperty()
	content.AppendXMLSchemaString(e.Content)
	n.SetActivityStreamsContent(content)

	if inReplyTo != nil {
		reply := streams.NewActivityStreamsInReplyToProperty()
		reply.AppendIRI(inReplyTo)
		n.SetActivityStreamsInReplyTo(reply)
	}

	if page != nil {
		u := streams.NewActivityStreamsUrlProperty()
		u.AppendIRI(page)
		n.SetActivityStreamsUrl(u)
	}

	if len(e.Tags) != 0 {
		tags := streams.NewActivityStreamsTagProperty()
		for _, t := range e.Tags {
			hashtag := streams.NewTootHashtag()
			name := streams.NewActivityStreamsNameProperty()
			name.AppendXMLSchemaString("#" + t)
			hashtag.SetActivityStreamsName(name)
			tags.AppendTootHashtag(hashtag)
		}
		n.SetActivityStreamsTag(tags)
	}

	published := streams.NewActivityStreamsPublishedProperty()
	published.Set(e.Published)
	n.SetActivityStreamsPublished(published)

	if e.Updated.After(e.Published) {
		updated := streams.NewActivityStreamsUpdatedProperty()
		updated.Set(e.Updated)
		n.SetActivityStreamsUpdated(updated)
	}

	return n
}

// NoteToEntry extracts the fields of an entry from a Note. Hashtags become tags; mentions and other tag
// types are ignored.
func NoteToEntry(n vocab.ActivityStreamsNote) (Note, error) {
	var note Note

	id := n.GetJSONLDId()
	if id == nil || id.Get() == nil {
		return note, fmt.Errorf("%w: id", federation.ErrMissingProperty)
	}
	note.Entry.ApId = id.Get()

	attributedTo := n.GetActivityStreamsAttributedTo()
	if attributedTo == nil || attributedTo.Len() == 0 {
		return note, fmt.Errorf("%w: attributedTo", federation.ErrMissingProperty)
	}
	author, err := IdOf(attributedTo.Begin().GetIRI(), attributedTo.Begin().GetType())
	if err != nil {
		return note, err
	}
	note.AttributedTo = author

	contentProp := n.GetActivityStreamsContent()
	if contentProp == nil || contentProp.Len() == 0 {
		return note, fmt.Errorf("%w: content", federation.ErrMissingProperty)
	}
	note.Entry.Content = contentProp.Begin().GetXMLSchemaString()

	if title := n.GetActivityStreamsName(); title != nil && title.Len() != 0 {
		note.Entry.Title = title.Begin().GetXMLSchemaString()
	}

	if summary := n.GetActivityStreamsSummary(); summary != nil && summary.Len() != 0 {
		note.Entry.Summary = summary.Begin().GetXMLSchemaString()
	}

	if reply := n.GetActivityStreamsInReplyTo(); reply != nil && reply.Len() != 0 {
		if note.InReplyTo, err = IdOf(reply.Begin().GetIRI(), reply.Begin().GetType()); err != nil {
			return note, err
		}
	}

	if tags := n.GetActivityStreamsTag(); tags != nil {
		for it := tags.Begin(); it != tags.End(); it = it.Next() {
			t := it.GetType()
			if t == nil || t.GetTypeName() != "Hashtag" {
				continue
			}
			named, ok := t.(WithName)
			if !ok || named.GetActivityStreamsName() == nil || named.GetActivityStreamsName().Len() == 0 {
				continue
			}
			tag := strings.TrimPrefix(named.GetActivityStreamsName().Begin().GetXMLSchemaString(), "#")
			note.Entry.Tags = append(note.Entry.Tags, tag)
		}
		note.Entry.Tags = domain.NormalizeTags(note.Entry.Tags)
	}

	if published := n.GetActivityStreamsPublished(); published != nil {
		note.Entry.Published = published.Get()
	}
	if updated := n.GetActivityStreamsUpdated(); updated != nil {
		note.Entry.Updated = updated.Get()
	}

	return note, nil
}
