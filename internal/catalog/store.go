package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jimengapi/internal/region"
)

// SnapshotStore persists the multi-site snapshot document.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// ModelFetcher pulls fresh model lists from the vendor's config API.
type ModelFetcher interface {
	FetchImageModels(ctx context.Context, site region.Site) ([]RawImageModel, error)
	FetchVideoModels(ctx context.Context, site region.Site) ([]RawVideoModel, error)
}

// Fetch outcome states in a refresh report.
const (
	StateOK    = "ok"
	StateEmpty = "empty"
	StateError = "error"
)

// FetchOutcome describes one site/kind fetch attempt during a refresh.
type FetchOutcome struct {
	State      string `json:"state"`
	ModelCount int    `json:"model_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SiteRefresh pairs the image and video outcomes for one site.
type SiteRefresh struct {
	Image FetchOutcome `json:"image"`
	Video FetchOutcome `json:"video"`
}

// RefreshReport is the structured result of a Refresh call. Success means at
// least one site produced a usable image catalog. PersistError is set when the
// snapshot could not be written back; the in-memory update stands regardless.
type RefreshReport struct {
	Success      bool                        `json:"success"`
	Message      string                      `json:"message"`
	PersistError string                      `json:"persist_error,omitempty"`
	Sites        map[region.Site]SiteRefresh `json:"sites"`
}

// SiteStatus summarizes one site for the status endpoint.
type SiteStatus struct {
	ImageModelCount int    `json:"imageModelCount"`
	VideoModelCount int    `json:"videoModelCount"`
	LastUpdated     string `json:"lastUpdated"`
}

// StoreOptions configures a Store.
type StoreOptions struct {
	Snapshots SnapshotStore
	Fetcher   ModelFetcher
	Logger    zerolog.Logger
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Store owns the per-site catalogs. Readers see whole SiteCatalog values only:
// a refresh builds the replacement aside and swaps the map entry under lock,
// so concurrent requests observe either the old or the new catalog, never a
// mix. Construct isolated instances in tests instead of sharing one globally.
type Store struct {
	snapshots SnapshotStore
	fetcher   ModelFetcher
	parser    *Parser
	log       zerolog.Logger
	now       func() time.Time

	mu          sync.RWMutex
	sites       map[region.Site]*SiteCatalog
	stored      *Snapshot
	initialized bool
}

// NewStore wires a store; Initialize must run before queries are answered.
func NewStore(opts StoreOptions) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		snapshots: opts.Snapshots,
		fetcher:   opts.Fetcher,
		parser:    NewParser(opts.Logger),
		log:       opts.Logger,
		now:       now,
		sites:     make(map[region.Site]*SiteCatalog, 5),
	}
}

// Initialize loads the persisted snapshot and builds every site's catalog.
// It is idempotent. Any missing document or empty image list is fatal: the
// process cannot serve traffic without a complete catalog.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("catalog: load snapshot: %w", err)
	}

	for _, site := range region.Sites() {
		slot := snap.Site(site)
		cat, err := s.parser.ParseSite(site, slot.ImageModels, slot.VideoModels, snap.LastUpdated)
		if err != nil {
			return err
		}
		s.sites[site] = cat
		s.log.Info().Str("site", string(site)).
			Int("image_models", len(cat.ImageModelIDs)).
			Int("video_models", len(cat.VideoModelIDs)).
			Msg("catalog: site loaded")
	}

	s.stored = snap
	s.initialized = true
	if snap.LastUpdated != "" {
		s.log.Info().Str("last_updated", snap.LastUpdated).Msg("catalog: snapshot loaded")
	}
	return nil
}

// Refresh re-fetches every site's model lists from the vendor. Each site and
// kind is attempted independently; failures are collected into the report,
// never propagated. A site whose image fetch succeeded gets its catalog
// swapped atomically; a video failure there only empties its video catalog.
// The resulting snapshot (fresh data for successes, previous data for
// failures) is persisted best-effort after all sites were attempted.
func (s *Store) Refresh(ctx context.Context) (*RefreshReport, error) {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return nil, ErrNotInitialized
	}
	prev := s.stored
	s.mu.RUnlock()

	snap := &Snapshot{LastUpdated: s.now().UTC().Format(time.RFC3339)}
	report := &RefreshReport{Sites: make(map[region.Site]SiteRefresh, 5)}
	successes := 0

	for _, site := range region.Sites() {
		var sr SiteRefresh

		images, err := s.fetcher.FetchImageModels(ctx, site)
		switch {
		case err != nil:
			sr.Image = FetchOutcome{State: StateError, Error: err.Error()}
			s.log.Error().Err(err).Str("site", string(site)).Msg("catalog: image model refresh failed")
		case len(images) == 0:
			sr.Image = FetchOutcome{State: StateEmpty}
		default:
			sr.Image = FetchOutcome{State: StateOK, ModelCount: len(images)}
			snap.Site(site).ImageModels = images
		}

		videos, err := s.fetcher.FetchVideoModels(ctx, site)
		switch {
		case err != nil:
			sr.Video = FetchOutcome{State: StateError, Error: err.Error()}
			s.log.Error().Err(err).Str("site", string(site)).Msg("catalog: video model refresh failed")
		case len(videos) == 0:
			sr.Video = FetchOutcome{State: StateEmpty}
		default:
			sr.Video = FetchOutcome{State: StateOK, ModelCount: len(videos)}
			snap.Site(site).VideoModels = videos
		}

		report.Sites[site] = sr

		if sr.Image.State != StateOK {
			// Carry the previously persisted data forward so a later restart
			// still has usable lists for this site. Each kind is carried
			// independently; a video list fetched fresh in this pass stays.
			if prev != nil {
				slot := snap.Site(site)
				slot.ImageModels = prev.Site(site).ImageModels
				if sr.Video.State != StateOK {
					slot.VideoModels = prev.Site(site).VideoModels
				}
			}
			continue
		}

		cat, err := s.parser.ParseSite(site, images, videos, snap.LastUpdated)
		if err != nil {
			sr.Image = FetchOutcome{State: StateError, Error: err.Error()}
			report.Sites[site] = sr
			continue
		}

		s.mu.Lock()
		s.sites[site] = cat
		s.mu.Unlock()
		successes++
		s.log.Info().Str("site", string(site)).
			Int("image_models", len(cat.ImageModelIDs)).
			Int("video_models", len(cat.VideoModelIDs)).
			Msg("catalog: site refreshed")
	}

	report.Success = successes > 0
	if successes == len(region.Sites()) {
		report.Message = "all sites refreshed"
	} else {
		report.Message = fmt.Sprintf("%d/%d sites refreshed", successes, len(region.Sites()))
	}

	if successes > 0 {
		s.mu.Lock()
		s.stored = snap
		s.mu.Unlock()
		if err := s.snapshots.Save(ctx, snap); err != nil {
			report.PersistError = err.Error()
			s.log.Error().Err(err).Msg("catalog: saving snapshot failed")
		}
	}

	return report, nil
}

// Catalog returns the region's current catalog.
func (s *Store) Catalog(info region.Info) (*SiteCatalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	cat, ok := s.sites[info.Site()]
	if !ok {
		return nil, ErrNotInitialized
	}
	return cat, nil
}

// Status reports per-site model counts and the last update timestamp.
func (s *Store) Status() map[region.Site]SiteStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := make(map[region.Site]SiteStatus, len(region.Sites()))
	for _, site := range region.Sites() {
		cat := s.sites[site]
		if cat == nil {
			status[site] = SiteStatus{LastUpdated: "not loaded"}
			continue
		}
		status[site] = SiteStatus{
			ImageModelCount: len(cat.ImageModelIDs),
			VideoModelCount: len(cat.VideoModelIDs),
			LastUpdated:     cat.LastUpdated,
		}
	}
	return status
}
