package templates

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Wididit/Wididit-server/internal/domain"
)

func render(t *testing.T, d PageData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Layout(d).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPaths(t *testing.T) {
	id := domain.UserID{Username: "alice", Hostname: "example.org"}
	if p := PersonPath(id); p != "/web/people/alice@example.org/" {
		t.Errorf("unexpected person path %s", p)
	}
	if p := EntryPath(domain.EntryRef{Author: id, Seq: 7}); p != "/web/entry/alice@example.org/7/" {
		t.Errorf("unexpected entry path %s", p)
	}
}

func TestLayout(t *testing.T) {
	out := render(t, PageData{
		SiteName:  "wididit",
		PageTitle: "a & b",
		Err:       errors.New("<oops>"),
		Child:     Message("Hello", "world"),
	})
	for _, s := range []string{"<title>a &amp; b - wididit</title>", "&lt;oops&gt;", "<h1>Hello</h1>", "/web/connect/"} {
		if !strings.Contains(out, s) {
			t.Errorf("layout lacks %q", s)
		}
	}

	out = render(t, PageData{SiteName: "wididit", Authenticated: true, Username: "alice", ProfilePath: "/web/people/alice@example.org/", Place: PlaceProfile})
	if !strings.Contains(out, `href="/web/people/alice@example.org/" aria-current="page"`) {
		t.Errorf("expected the profile link to be current: %s", out)
	}
	if strings.Contains(out, "/web/connect/") {
		t.Error("logged in visitors should not be offered to log in")
	}
}

func TestEntry(t *testing.T) {
	alice := domain.Person{ID: 1, Username: "alice", Hostname: "example.org"}
	bob := domain.Person{ID: 2, Username: "bob", Hostname: "example.org"}
	e := domain.Entry{
		Seq:          3,
		Author:       alice,
		Title:        `"quoted" <b>`,
		Content:      "one\r\n\r\ntwo\n\n\n",
		Tags:         []string{"go", "c++"},
		Contributors: []domain.Person{bob},
		InReplyTo:    &domain.EntryRef{Author: bob.UserID(), Seq: 1},
		Published:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	err := Entry(EntryPage{Entry: e, CanEdit: true, Form: FormOf(e)}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, s := range []string{
		"&#34;quoted&#34; &lt;b&gt;",
		"<p>one</p><p>two</p>",
		`href="/?tag=c%2B%2B"`,
		"/web/people/bob@example.org/",
		"/web/entry/bob@example.org/1/",
		"2024-05-01 12:00 UTC",
		`name="tags" value="go, c++"`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("entry lacks %q", s)
		}
	}
	if strings.Contains(out, `name="contributors"`) {
		t.Error("only the author may change contributors")
	}
	if strings.Contains(out, "/delete") {
		t.Error("delete offered without permission")
	}
}

func TestFormOf(t *testing.T) {
	bob := domain.Person{Username: "bob", Hostname: "example.org"}
	f := FormOf(domain.Entry{
		Title:        "t",
		Tags:         []string{"a", "b"},
		Contributors: []domain.Person{bob},
		InReplyTo:    &domain.EntryRef{Author: bob.UserID(), Seq: 2},
	})
	want := EntryForm{Title: "t", Tags: "a, b", Contributors: "bob@example.org", InReplyTo: "bob@example.org/2"}
	if f != want {
		t.Errorf("got %+v, want %+v", f, want)
	}
}
