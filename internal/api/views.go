package api

import (
	"time"

	"github.com/Wididit/Wididit-server/internal/domain"
)

// PersonView is what clients see of a person. Email, password and keys never leave the server.
type PersonView struct {
	UserID    string `json:"userid"`
	Username  string `json:"username"`
	Hostname  string `json:"hostname"`
	Biography string `json:"biography"`
	Actor     string `json:"actor,omitempty"`
}

type ServerView struct {
	Hostname string    `json:"hostname"`
	Local    bool      `json:"local"`
	Created  time.Time `json:"created"`
}

type EntryView struct {
	Ref          string    `json:"ref"`
	Author       string    `json:"author"`
	EntryID      int64     `json:"entryid"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Content      string    `json:"content"`
	Rights       string    `json:"rights,omitempty"`
	Generator    string    `json:"generator,omitempty"`
	Tags         []string  `json:"tags"`
	Contributors []string  `json:"contributors"`
	InReplyTo    string    `json:"in_reply_to,omitempty"`
	Published    time.Time `json:"published"`
	Updated      time.Time `json:"updated"`
}

type RevisionView struct {
	Editor  string    `json:"editor"`
	Diff    string    `json:"diff"`
	Created time.Time `json:"created"`
}

type SubscriptionView struct {
	Subscriber string    `json:"subscriber"`
	Target     string    `json:"target"`
	Created    time.Time `json:"created"`
}

type ShareView struct {
	Person  string    `json:"person"`
	Created time.Time `json:"created"`
}

func personView(p domain.Person) PersonView {
	v := PersonView{
		UserID:    p.UserID().String(),
		Username:  p.Username,
		Hostname:  p.Hostname,
		Biography: p.Biography,
	}
	if p.ApId != nil {
		v.Actor = p.ApId.String()
	}
	return v
}

func peopleView(people []domain.Person) []PersonView {
	views := make([]PersonView, len(people))
	for i, p := range people {
		views[i] = personView(p)
	}
	return views
}

func serverView(s domain.Server) ServerView {
	return ServerView{Hostname: s.Hostname, Local: s.Local, Created: s.Created}
}

func entryView(e domain.Entry) EntryView {
	v := EntryView{
		Ref:          e.Ref().String(),
		Author:       e.Author.UserID().String(),
		EntryID:      e.Seq,
		Title:        e.Title,
		Subtitle:     e.Subtitle,
		Summary:      e.Summary,
		Content:      e.Content,
		Rights:       e.Rights,
		Generator:    e.Generator,
		Tags:         e.Tags,
		Contributors: make([]string, len(e.Contributors)),
		Published:    e.Published,
		Updated:      e.Updated,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	for i, c := range e.Contributors {
		v.Contributors[i] = c.UserID().String()
	}
	if e.InReplyTo != nil {
		v.InReplyTo = e.InReplyTo.String()
	}
	return v
}

func entriesView(entries []domain.Entry) []EntryView {
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = entryView(e)
	}
	return views
}
