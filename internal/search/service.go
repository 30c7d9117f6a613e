package search

import (
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/rs/zerolog/log"
)

// Engine is a full text index of entries.
type Engine interface {
	Healthy() bool
	Search(text string, limit int) ([]int64, error)
	IndexEntry(doc EntryRecord) error
	DeleteEntry(id int64) error
}

// Service puts the index in front of the SQL fallback. A nil engine means no index is configured.
type Service struct {
	engine Engine
}

func NewService(engine Engine) *Service {
	return &Service{engine: engine}
}

func (s *Service) Available() bool {
	return s != nil && s.engine != nil && s.engine.Healthy()
}

// Search asks the index for the entries matching text. ok is false when the caller should fall back to
// filtering with ParseTerms instead.
func (s *Service) Search(text string, limit int) (ids []int64, ok bool) {
	if !s.Available() {
		return nil, false
	}

	ids, err := s.engine.Search(text, limit)
	if err != nil {
		log.Warn().Err(err).Msg("search index error, falling back to SQL")
		return nil, false
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, true
}

func (s *Service) IndexEntry(e domain.Entry) {
	if !s.Available() {
		return
	}
	doc := RecordOf(e)
	go func() {
		if err := s.engine.IndexEntry(doc); err != nil {
			log.Error().Err(err).Int64("entry", doc.ID).Msg("indexing entry")
		}
	}()
}

func (s *Service) DeleteEntry(id int64) {
	if !s.Available() {
		return
	}
	go func() {
		if err := s.engine.DeleteEntry(id); err != nil {
			log.Error().Err(err).Int64("entry", id).Msg("removing entry from index")
		}
	}()
}
