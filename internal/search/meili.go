package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog/log"
)

const entriesIndex = "wididit_entries"

var ErrUnhealthy = errors.New("meilisearch unhealthy")

// Meili keeps the entries index in Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili connects to Meilisearch and configures the index. An unreachable server is not an error: the
// health loop keeps probing and configures the index once it comes up.
func NewMeili(url, apiKey string) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("meilisearch unavailable")
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	_, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        entriesIndex,
		PrimaryKey: "id",
	})
	if err != nil {
		log.Debug().Err(err).Msg("create index (may already exist)")
	}

	index := m.client.Index(entriesIndex)
	filterable := []interface{}{"author", "tags"}
	if _, err = index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Error().Err(err).Msg("updating filterable attributes")
	}
	searchable := []string{"title", "summary", "content"}
	if _, err = index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Error().Err(err).Msg("updating searchable attributes")
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Swap(err == nil)
			if err == nil && !wasHealthy {
				log.Info().Msg("meilisearch recovered, configuring index")
				m.configureIndex()
			}
		}
	}
}

func (m *Meili) Close() {
	close(m.done)
}

func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search returns the ids of the entries matching text, best match first.
func (m *Meili) Search(text string, limit int) ([]int64, error) {
	if !m.healthy.Load() {
		return nil, ErrUnhealthy
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: []*meili.SearchRequest{{
			IndexUID:             entriesIndex,
			Query:                text,
			Limit:                int64(limit),
			AttributesToRetrieve: []string{"id"},
		}},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	var ids []int64
	for _, r := range resp.Results {
		for _, hit := range r.Hits {
			raw, ok := hit["id"]
			if !ok {
				continue
			}
			var id int64
			if err := json.Unmarshal(raw, &id); err != nil {
				log.Warn().Err(err).Bytes("id", raw).Msg("unexpected document id in search hit")
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *Meili) IndexEntry(doc EntryRecord) error {
	_, err := m.client.Index(entriesIndex).AddDocuments([]EntryRecord{doc}, nil)
	return err
}

func (m *Meili) DeleteEntry(id int64) error {
	_, err := m.client.Index(entriesIndex).DeleteDocument(fmt.Sprint(id), nil)
	return err
}
