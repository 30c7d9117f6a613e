package federation

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestWantsActivity(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"application/activity+json", true},
		{`application/ld+json; profile="https://www.w3.org/ns/activitystreams"`, true},
		{"text/html, application/activity+json;q=0.9", true},
		{"text/html,application/xhtml+xml", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/people/alice", nil)
			r.Header.Set("Accept", tt.accept)
			if got := WantsActivity(r); got != tt.want {
				t.Errorf("WantsActivity(%q) = %t", tt.accept, got)
			}
		})
	}
}

func TestKeyID(t *testing.T) {
	actor, _ := url.Parse("https://example.org/people/alice")
	key := KeyID(actor)
	if key.String() != "https://example.org/people/alice#main-key" {
		t.Errorf("unexpected key id %s", key)
	}
	if actor.Fragment != "" {
		t.Error("KeyID modified its argument")
	}
	if back := ActorOfKey(key); back.String() != actor.String() {
		t.Errorf("expected %s, got %s", actor, back)
	}
}
