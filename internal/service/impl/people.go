package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/internal/validate"
)

func (s *AppService) parseUserID(userid string) (domain.UserID, error) {
	id, err := domain.ParseUserID(userid, s.Config.Hostname)
	if err != nil {
		return id, invalid(err)
	}
	return id, nil
}

// server returns the server known by hostname. Servers are never deleted, so a cached value stays valid.
func (s *AppService) server(ctx context.Context, hostname string) (domain.Server, error) {
	if srv, ok := s.servers.Get(hostname); ok {
		return srv, nil
	}

	srv, err := s.DB.GetServerByHostname(ctx, hostname)
	if err != nil {
		return srv, err
	}
	s.servers.Add(hostname, srv)
	return srv, nil
}

func (s *AppService) person(ctx context.Context, id domain.UserID) (domain.Person, error) {
	srv, err := s.server(ctx, id.Hostname)
	if err != nil {
		return domain.Person{}, fmt.Errorf("person %s: %w", id, err)
	}
	return s.DB.GetPerson(ctx, srv.ID, id.Username)
}

func (s *AppService) ResolvePerson(ctx context.Context, userid string) (domain.Person, error) {
	id, err := s.parseUserID(userid)
	if err != nil {
		return domain.Person{}, err
	}
	return s.person(ctx, id)
}

func (s *AppService) ListPeople(ctx context.Context, limit, offset int) ([]domain.Person, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", service.ErrInvalidInput)
	}
	return s.DB.ListPeople(ctx, s.Config.Limit(limit), offset)
}

func (s *AppService) DiscoverPerson(ctx context.Context, caller service.Caller, userid string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	id, err := s.parseUserID(userid)
	if err != nil {
		return err
	}
	if strings.EqualFold(id.Hostname, s.Config.Hostname) {
		return fmt.Errorf("%w: %s is local", service.ErrInvalidInput, id)
	}
	if s.Gateway == nil {
		return fmt.Errorf("%w: federation is disabled", service.ErrUnavailable)
	}

	if _, err = s.DB.GetOrCreateServer(ctx, id.Hostname); err != nil {
		return err
	}
	return s.Gateway.EnqueueDiscover(id)
}

func (s *AppService) ListServers(ctx context.Context) ([]domain.Server, error) {
	return s.DB.ListServers(ctx)
}

// AddServer registers a federation peer. Only administrators may do this.
func (s *AppService) AddServer(ctx context.Context, caller service.Caller, hostname string) (domain.Server, error) {
	if err := requireCaller(caller); err != nil {
		return domain.Server{}, err
	}
	if !caller.Admin() {
		return domain.Server{}, fmt.Errorf("%w: only administrators may add servers", service.ErrForbidden)
	}

	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if err := validate.Hostname(hostname); err != nil {
		return domain.Server{}, invalid(err)
	}

	srv, err := s.DB.InsertServer(ctx, hostname)
	if err != nil {
		return srv, conflict(err, hostname+" is already known")
	}
	s.servers.Add(hostname, srv)
	return srv, nil
}
