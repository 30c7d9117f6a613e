package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/gateway"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/rs/zerolog/log"
)

// subscriptionTarget resolves target, looking remote people up on their server when they are not yet known.
func (s *AppService) subscriptionTarget(ctx context.Context, target string) (domain.Person, error) {
	id, err := s.parseUserID(target)
	if err != nil {
		return domain.Person{}, err
	}

	p, err := s.person(ctx, id)
	if err == nil || !errors.Is(err, db.ErrNotFound) || id.Hostname == s.Config.Hostname || s.Gateway == nil {
		return p, err
	}

	p, err = s.Gateway.Discover(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("person", id.String()).Msg("discovery failed")
		return domain.Person{}, fmt.Errorf("%w: could not discover %s", db.ErrNotFound, id)
	}
	return p, nil
}

func (s *AppService) Subscribe(ctx context.Context, caller service.Caller, target string) (domain.Subscription, error) {
	if err := requireCaller(caller); err != nil {
		return domain.Subscription{}, err
	}

	p, err := s.subscriptionTarget(ctx, target)
	if err != nil {
		return domain.Subscription{}, err
	}
	if p.ID == caller.Person.ID {
		return domain.Subscription{}, fmt.Errorf("%w: cannot subscribe to oneself", service.ErrInvalidInput)
	}

	var follow *url.URL
	if !s.isLocal(p) {
		if s.Gateway == nil {
			return domain.Subscription{}, fmt.Errorf("%w: federation is disabled", service.ErrUnavailable)
		}
		follow = s.Gateway.ActivityIRI()
	}

	sub, err := s.DB.Subscribe(ctx, caller.Person.ID, p.ID, follow)
	if err != nil {
		return sub, conflict(err, fmt.Sprintf("already subscribed to %s", p.UserID()))
	}

	log.Info().Str("subscriber", caller.Person.UserID().String()).Str("target", p.UserID().String()).Msg("subscribed")
	s.federate("follow", func(g gateway.FedGateway) error { return g.Follow(ctx, sub) })
	return sub, nil
}

func (s *AppService) Unsubscribe(ctx context.Context, caller service.Caller, target string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	p, err := s.ResolvePerson(ctx, target)
	if err != nil {
		return err
	}

	sub, err := s.DB.Unsubscribe(ctx, caller.Person.ID, p.ID)
	if err != nil {
		return err
	}

	s.federate("unfollow", func(g gateway.FedGateway) error { return g.Unfollow(ctx, sub) })
	return nil
}

func (s *AppService) Subscriptions(ctx context.Context, userid string) ([]domain.Person, error) {
	p, err := s.ResolvePerson(ctx, userid)
	if err != nil {
		return nil, err
	}
	return s.DB.GetSubscriptions(ctx, p.ID)
}

func (s *AppService) Subscribers(ctx context.Context, userid string) ([]domain.Person, error) {
	p, err := s.ResolvePerson(ctx, userid)
	if err != nil {
		return nil, err
	}
	return s.DB.GetSubscribers(ctx, p.ID)
}

func (s *AppService) Share(ctx context.Context, caller service.Caller, userid, entryid string) (domain.Share, error) {
	if err := requireCaller(caller); err != nil {
		return domain.Share{}, err
	}

	e, err := s.entry(ctx, userid, entryid)
	if err != nil {
		return domain.Share{}, err
	}

	share, err := s.DB.Share(ctx, caller.Person.ID, e.ID)
	if err != nil {
		return share, conflict(err, fmt.Sprintf("%s already shared", e.Ref()))
	}

	s.federate("announce", func(g gateway.FedGateway) error { return g.PublishShare(ctx, caller.Person, e) })
	return share, nil
}

func (s *AppService) Unshare(ctx context.Context, caller service.Caller, userid, entryid string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	e, err := s.entry(ctx, userid, entryid)
	if err != nil {
		return err
	}

	if err = s.DB.Unshare(ctx, caller.Person.ID, e.ID); err != nil {
		return err
	}

	s.federate("undo announce", func(g gateway.FedGateway) error { return g.PublishUnshare(ctx, caller.Person, e) })
	return nil
}

func (s *AppService) Sharers(ctx context.Context, userid, entryid string) ([]domain.Person, error) {
	e, err := s.entry(ctx, userid, entryid)
	if err != nil {
		return nil, err
	}
	return s.DB.GetSharers(ctx, e.ID)
}

// ReceiveActivity hands an inbox request to the gateway. Only local people have inboxes.
func (s *AppService) ReceiveActivity(ctx context.Context, r *http.Request, username string) error {
	if s.Gateway == nil {
		return fmt.Errorf("%w: federation is disabled", service.ErrUnavailable)
	}

	p, err := s.person(ctx, domain.UserID{Username: username, Hostname: s.Config.Hostname})
	if err != nil {
		return err
	}
	return s.Gateway.ReceiveActivity(ctx, r, p)
}
