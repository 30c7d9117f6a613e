package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/gateway"
	"github.com/Wididit/Wididit-server/internal/search"
	"github.com/Wididit/Wididit-server/internal/service"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

const (
	BcryptCost = 10
	// searchLimit bounds the number of entry ids taken from the search index for one query.
	searchLimit     = 1000
	serverCacheSize = 512
)

type AppService struct {
	Config  config.Configuration
	DB      db.DB
	Gateway gateway.FedGateway
	Search  *search.Service
	servers *lru.Cache[string, domain.Server]
}

// New builds the application service. gw may be nil, which disables federation; s may be nil, which
// disables the search index.
func New(cfg config.Configuration, DB db.DB, gw gateway.FedGateway, s *search.Service) *AppService {
	servers, err := lru.New[string, domain.Server](serverCacheSize)
	if err != nil {
		panic(err)
	}
	return &AppService{
		Config:  cfg,
		DB:      DB,
		Gateway: gw,
		Search:  s,
		servers: servers,
	}
}

var _ service.Service = (*AppService)(nil)

// federate runs a gateway call once the local change is stored. Failures are logged: the change stands
// whether or not other servers hear about it.
func (s *AppService) federate(what string, f func(gateway.FedGateway) error) {
	if s.Gateway == nil {
		return
	}
	if err := f(s.Gateway); err != nil {
		log.Error().Err(err).Str("activity", what).Msg("federation failed")
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
}

// conflict turns a storage uniqueness violation into service.ErrConflict.
func conflict(err error, what string) error {
	if errors.Is(err, db.ErrConflict) {
		return fmt.Errorf("%w: %s", service.ErrConflict, what)
	}
	return err
}

func requireCaller(caller service.Caller) error {
	if caller.Anonymous() {
		return service.ErrUnauthorized
	}
	return nil
}

func (s *AppService) isLocal(p domain.Person) bool {
	return p.IsLocal(s.Config.Hostname)
}

func (s *AppService) LocalServer(ctx context.Context) (domain.Server, error) {
	return s.server(ctx, s.Config.Hostname)
}
