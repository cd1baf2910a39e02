package handlers

import (
	"errors"
	"net/http"

	"jimengapi/internal/catalog"
	"jimengapi/internal/middleware"
	"jimengapi/internal/region"
)

type modelEntry struct {
	ID               string               `json:"id"`
	Object           string               `json:"object"`
	OwnedBy          string               `json:"owned_by"`
	Type             string               `json:"type"`
	SupportedRegions map[region.Site]bool `json:"supported_regions"`
}

// ModelsList merges every site's image and video model ids into one listing
// with a per-site support map.
func (a *App) ModelsList(w http.ResponseWriter, r *http.Request) {
	images := make(map[region.Site][]string, 5)
	videos := make(map[region.Site][]string, 5)
	for _, site := range region.Sites() {
		info := region.FromSite(site)
		ids, err := a.Catalog.SupportedModels(info)
		if err != nil {
			a.error(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
		images[site] = ids
		videoIDs, err := a.Catalog.SupportedVideoModels(info)
		if err != nil {
			a.error(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
		videos[site] = videoIDs
	}

	entries := mergeModelEntries(images, "image")
	entries = append(entries, mergeModelEntries(videos, "video")...)
	a.json(w, http.StatusOK, map[string]any{"data": entries})
}

// mergeModelEntries dedupes ids across sites, keeping first-seen order.
func mergeModelEntries(perSite map[region.Site][]string, kind string) []modelEntry {
	index := make(map[string]*modelEntry)
	var order []string
	for _, site := range region.Sites() {
		for _, id := range perSite[site] {
			entry, ok := index[id]
			if !ok {
				entry = &modelEntry{
					ID:               id,
					Object:           "model",
					OwnedBy:          "jimeng-api",
					Type:             kind,
					SupportedRegions: make(map[region.Site]bool, 5),
				}
				for _, s := range region.Sites() {
					entry.SupportedRegions[s] = false
				}
				index[id] = entry
				order = append(order, id)
			}
			entry.SupportedRegions[site] = true
		}
	}
	entries := make([]modelEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *index[id])
	}
	return entries
}

// ImageModels lists the image model ids per site.
func (a *App) ImageModels(w http.ResponseWriter, r *http.Request) {
	data := make(map[region.Site][]string, 5)
	for _, site := range region.Sites() {
		ids, err := a.Catalog.SupportedModels(region.FromSite(site))
		if err != nil {
			a.error(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
		data[site] = ids
	}
	a.json(w, http.StatusOK, map[string]any{"data": data})
}

// VideoModels lists the video model details per site, option schema included.
func (a *App) VideoModels(w http.ResponseWriter, r *http.Request) {
	data := make(map[region.Site][]*catalog.VideoModel, 5)
	for _, site := range region.Sites() {
		details, err := a.Catalog.VideoModelDetails(region.FromSite(site))
		if err != nil {
			a.error(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
		data[site] = details
	}
	a.json(w, http.StatusOK, map[string]any{"data": data})
}

// ConfigStatus reports per-site model counts and last-update timestamps.
func (a *App) ConfigStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"sites": a.Catalog.Status()})
}

// ConfigRefresh re-fetches every site's configuration from the vendor and
// returns the per-site, per-kind report.
func (a *App) ConfigRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := a.Catalog.Refresh(r.Context())
	if err != nil {
		a.error(w, http.StatusServiceUnavailable, "not_ready", err.Error())
		return
	}
	a.json(w, http.StatusOK, report)
}

// ResolveImageSize validates a (model, resolution, ratio, region) tuple and
// returns the pixel dimensions plus the vendor ratio code.
func (a *App) ResolveImageSize(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	modelID := query.Get("model")
	if modelID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "model is required")
		return
	}
	resolution := query.Get("resolution")
	if resolution == "" {
		resolution = "2k"
	}
	ratio := query.Get("ratio")
	if ratio == "" {
		ratio = "1:1"
	}
	info := a.requestRegion(r, query.Get("region"))

	resolved, err := a.Catalog.ResolveSize(modelID, resolution, ratio, info)
	if err != nil {
		a.resolveError(w, err)
		return
	}
	a.json(w, http.StatusOK, resolved)
}

// requestRegion prefers an explicit region parameter over the middleware's
// detection.
func (a *App) requestRegion(r *http.Request, explicit string) region.Info {
	if info, ok := region.Parse(explicit); ok {
		return info
	}
	return middleware.RegionFromContext(r.Context())
}

// resolveError maps catalog errors onto HTTP responses. Validation messages
// go to the caller verbatim; a size lookup inconsistency is a server defect.
func (a *App) resolveError(w http.ResponseWriter, err error) {
	var (
		modelErr      *catalog.UnsupportedModelError
		resolutionErr *catalog.UnsupportedResolutionError
		ratioErr      *catalog.UnsupportedRatioError
		sizeErr       *catalog.SizeLookupError
	)
	switch {
	case errors.As(err, &modelErr):
		a.error(w, http.StatusBadRequest, "unsupported_model", err.Error())
	case errors.As(err, &resolutionErr):
		a.error(w, http.StatusBadRequest, "unsupported_resolution", err.Error())
	case errors.As(err, &ratioErr):
		a.error(w, http.StatusBadRequest, "unsupported_ratio", err.Error())
	case errors.As(err, &sizeErr):
		a.Log.Error().Err(err).Msg("catalog size lookup inconsistency")
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	default:
		a.error(w, http.StatusServiceUnavailable, "not_ready", err.Error())
	}
}
