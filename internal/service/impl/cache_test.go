package core

import (
	"errors"
	"testing"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	mock_db "github.com/Wididit/Wididit-server/internal/mocks"
	"go.uber.org/mock/gomock"
)

func TestResolvePersonCachesServers(t *testing.T) {
	ctrl := gomock.NewController(t)
	DB := mock_db.NewMockDB(ctrl)
	s := New(cfg, DB, nil, nil)

	local := domain.Server{ID: 1, Hostname: cfg.Hostname, Local: true}
	alice := domain.Person{ID: 10, ServerID: 1, Username: "alice", Hostname: cfg.Hostname}
	bob := domain.Person{ID: 11, ServerID: 1, Username: "bob", Hostname: cfg.Hostname}

	DB.EXPECT().GetServerByHostname(gomock.Any(), cfg.Hostname).Return(local, nil).Times(1)
	DB.EXPECT().GetPerson(gomock.Any(), int64(1), "alice").Return(alice, nil).Times(2)
	DB.EXPECT().GetPerson(gomock.Any(), int64(1), "bob").Return(bob, nil).Times(1)

	for _, id := range []string{"alice", "alice@test.host", "bob"} {
		if _, err := s.ResolvePerson(ctx, id); err != nil {
			t.Fatalf("%s: %s", id, err)
		}
	}
}

func TestResolvePersonDoesNotCacheMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	DB := mock_db.NewMockDB(ctrl)
	s := New(cfg, DB, nil, nil)

	peer := domain.Server{ID: 2, Hostname: "peer.test"}

	gomock.InOrder(
		DB.EXPECT().GetServerByHostname(gomock.Any(), "peer.test").Return(domain.Server{}, db.ErrNotFound),
		DB.EXPECT().GetServerByHostname(gomock.Any(), "peer.test").Return(peer, nil),
	)
	DB.EXPECT().GetPerson(gomock.Any(), int64(2), "carol").Return(domain.Person{ID: 12}, nil)

	if _, err := s.ResolvePerson(ctx, "carol@peer.test"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ResolvePerson(ctx, "carol@peer.test"); err != nil {
		t.Fatal(err)
	}
}
