package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const localhost = "localhost"

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in      string
		want    UserID
		wantErr bool
	}{
		{in: "alice", want: UserID{"alice", localhost}},
		{in: "alice@localhost", want: UserID{"alice", localhost}},
		{in: "alice@", want: UserID{"alice", localhost}},
		{in: " @alice@Example.ORG ", want: UserID{"alice", "example.org"}},
		{in: "bob@example.org:8080", want: UserID{"bob", "example.org:8080"}},
		{in: "", wantErr: true},
		{in: "@", wantErr: true},
		{in: "alice@bad host", wantErr: true},
		{in: "alice@b@c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUserID(tt.in, localhost)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUserID) {
					t.Errorf("expected ErrInvalidUserID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseUserIDDefaultAndExplicitHostAgree(t *testing.T) {
	implicit, err := ParseUserID("alice", localhost)
	if err != nil {
		t.Fatal(err)
	}
	explicit, err := ParseUserID("alice@localhost", localhost)
	if err != nil {
		t.Fatal(err)
	}
	if implicit != explicit {
		t.Errorf("%s != %s", implicit, explicit)
	}
	if implicit.String() != "alice@localhost" {
		t.Errorf("unexpected string form %s", implicit)
	}
}

func TestParseEntryRef(t *testing.T) {
	tests := []struct {
		in      string
		want    EntryRef
		wantErr bool
	}{
		{in: "alice@localhost/1", want: EntryRef{UserID{"alice", localhost}, 1}},
		{in: "alice/42/", want: EntryRef{UserID{"alice", localhost}, 42}},
		{in: "/bob@example.org/7/", want: EntryRef{UserID{"bob", "example.org"}, 7}},
		{in: "alice", wantErr: true},
		{in: "alice/0", wantErr: true},
		{in: "alice/-1", wantErr: true},
		{in: "alice/x", wantErr: true},
		{in: "/3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEntryRef(tt.in, localhost)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEntryRef) {
					t.Errorf("expected ErrInvalidEntryRef, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEntryRefString(t *testing.T) {
	r := EntryRef{Author: UserID{"alice", localhost}, Seq: 3}
	if got := r.String(); got != "alice@localhost/3" {
		t.Errorf("unexpected %s", got)
	}
}

func TestPermissions(t *testing.T) {
	author := Person{ID: 1, Username: "alice", Hostname: localhost}
	contributor := Person{ID: 2, Username: "bob", Hostname: localhost}
	stranger := Person{ID: 3, Username: "carol", Hostname: "example.org"}
	anonymous := Person{}

	e := Entry{Author: author, Contributors: []Person{contributor}}

	tests := []struct {
		name      string
		person    Person
		canEdit   bool
		canDelete bool
	}{
		{"author", author, true, true},
		{"contributor", contributor, true, false},
		{"stranger", stranger, false, false},
		{"anonymous", anonymous, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CanEdit(tt.person); got != tt.canEdit {
				t.Errorf("CanEdit = %t, expected %t", got, tt.canEdit)
			}
			if got := e.CanDelete(tt.person); got != tt.canDelete {
				t.Errorf("CanDelete = %t, expected %t", got, tt.canDelete)
			}
		})
	}
}

func TestIsLocal(t *testing.T) {
	if !(Person{Hostname: "LocalHost"}).IsLocal(localhost) {
		t.Error("expected person to be local")
	}
	if (Person{Hostname: "example.org"}).IsLocal(localhost) {
		t.Error("expected person to be remote")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Music/Jazz ", "#news", "", "news", "MUSIC/jazz"})
	want := []string{"music/jazz", "news"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestModes(t *testing.T) {
	tests := []struct {
		q              EntryQuery
		native, shared bool
	}{
		{EntryQuery{}, true, true},
		{EntryQuery{Native: true}, true, false},
		{EntryQuery{Shared: true}, false, true},
		{EntryQuery{Native: true, Shared: true}, true, true},
	}
	for _, tt := range tests {
		n, s := tt.q.Modes()
		if n != tt.native || s != tt.shared {
			t.Errorf("Modes(%+v) = %t, %t", tt.q, n, s)
		}
	}
}
