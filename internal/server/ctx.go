package server

import (
	"sync"
	"time"

	"github.com/woozymasta/geokit/assets"
	"github.com/woozymasta/geokit/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config        *config.Config
	FenceResolver map[string]int // name or alias -> index in Config.Fences
	IndexHTML     []byte
	Favicon       []byte

	// PreviewSize and PreviewConcurrency control fence preview rendering.
	PreviewSize        int
	PreviewConcurrency int

	// Redis optionally shares rendered previews between instances.
	Redis      *redis.Client
	PreviewTTL time.Duration

	previewMu sync.Mutex
	previews  map[string][]byte
}

// NewServerContext initializes the context and processes the fence configuration.
// It drops fences that are not polygons and sets up the name resolver.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().Int("config_fences_count", len(cfg.Fences)).Msg("Initializing server context")

	cfg.Normalize()

	resolver := make(map[string]int)
	for i, fence := range cfg.Fences {
		if _, dup := resolver[fence.Name]; dup {
			log.Warn().Str("fence", fence.Name).Msg("Duplicate fence name, keeping first")
			continue
		}
		resolver[fence.Name] = i

		for _, alias := range fence.Aliases {
			if _, dup := resolver[alias]; dup {
				log.Warn().
					Str("fence", fence.Name).
					Str("alias", alias).
					Msg("Alias already taken, ignoring")
				continue
			}
			resolver[alias] = i
		}
	}

	log.Info().
		Int("valid_fences_count", len(cfg.Fences)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:             cfg,
		FenceResolver:      resolver,
		IndexHTML:          assets.Index,
		Favicon:            assets.Favicon,
		PreviewSize:        256,
		PreviewConcurrency: 4,
		previews:           make(map[string][]byte),
	}
}

// fence resolves a fence by name or alias.
func (s *ServerContext) fence(name string) (*config.Fence, bool) {
	idx, ok := s.FenceResolver[name]
	if !ok {
		return nil, false
	}

	return &s.Config.Fences[idx], true
}
