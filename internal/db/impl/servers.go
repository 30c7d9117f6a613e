package impl

import (
	"context"
	"crypto"
	"errors"
	"fmt"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/domain"
)

func (d *dbImpl) GetServerByHostname(ctx context.Context, hostname string) (domain.Server, error) {
	s, err := d.queries.GetServerByHostname(ctx, hostname)
	if err != nil {
		return domain.Server{}, fmt.Errorf("server %s: %w", hostname, d.HandleError(err))
	}
	return toServer(s), nil
}

func (d *dbImpl) InsertServer(ctx context.Context, hostname string) (domain.Server, error) {
	s, err := d.queries.InsertServer(ctx, queries.InsertServerParams{
		Hostname: hostname,
	})
	if err != nil {
		return domain.Server{}, fmt.Errorf("server %s: %w", hostname, d.HandleError(err))
	}
	return toServer(s), nil
}

func (d *dbImpl) GetOrCreateServer(ctx context.Context, hostname string) (domain.Server, error) {
	s, err := d.GetServerByHostname(ctx, hostname)
	if err == nil || !errors.Is(err, db.ErrNotFound) {
		return s, err
	}

	s, err = d.InsertServer(ctx, hostname)
	if errors.Is(err, db.ErrConflict) {
		// Lost a race against another insert.
		return d.GetServerByHostname(ctx, hostname)
	}
	return s, err
}

func (d *dbImpl) ListServers(ctx context.Context) ([]domain.Server, error) {
	rows, err := d.queries.ListServers(ctx)
	if err != nil {
		return nil, d.HandleError(err)
	}

	servers := make([]domain.Server, len(rows))
	for i, s := range rows {
		servers[i] = toServer(s)
	}
	return servers, nil
}

func (d *dbImpl) GetInstanceKey(ctx context.Context) (crypto.PrivateKey, error) {
	key, err := d.queries.GetLocalServerKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("instance key: %w", d.HandleError(err))
	}
	if !key.Valid {
		return nil, fmt.Errorf("instance key: %w", db.ErrNotFound)
	}
	return parsePrivateKey(key.String)
}
