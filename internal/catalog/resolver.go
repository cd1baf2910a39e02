package catalog

import (
	"jimengapi/internal/region"
)

// Resolution is the outcome of a validated size lookup, consumed by the
// payload compiler.
type Resolution struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	RatioType      int    `json:"ratio_type"`
	ResolutionType string `json:"resolution_type"`
}

// SupportedModels lists the region's image model ids in vendor order.
func (s *Store) SupportedModels(info region.Info) ([]string, error) {
	cat, err := s.Catalog(info)
	if err != nil {
		return nil, err
	}
	return cat.ImageModelIDs, nil
}

// SupportedVideoModels lists the region's video model ids in vendor order.
func (s *Store) SupportedVideoModels(info region.Info) ([]string, error) {
	cat, err := s.Catalog(info)
	if err != nil {
		return nil, err
	}
	return cat.VideoModelIDs, nil
}

// VideoModelDetails returns the full option schema of every video model.
func (s *Store) VideoModelDetails(info region.Info) ([]*VideoModel, error) {
	cat, err := s.Catalog(info)
	if err != nil {
		return nil, err
	}
	details := make([]*VideoModel, 0, len(cat.VideoModelIDs))
	for _, id := range cat.VideoModelIDs {
		details = append(details, cat.VideoModels[id])
	}
	return details, nil
}

// ModelReqKey maps an external model id to the vendor request key.
func (s *Store) ModelReqKey(modelID string, info region.Info) (string, bool) {
	cat, err := s.Catalog(info)
	if err != nil {
		return "", false
	}
	key, ok := cat.ReqKeyByID[modelID]
	return key, ok
}

// Validate checks model, resolution and ratio in that order and returns a
// descriptive error naming the valid alternatives. A resolution that declares
// no ratios accepts every ratio.
func (s *Store) Validate(modelID, resolution, ratio string, info region.Info) error {
	cat, err := s.Catalog(info)
	if err != nil {
		return err
	}

	model, ok := cat.ImageModels[modelID]
	if !ok {
		return &UnsupportedModelError{
			Site:      region.Name(info),
			ModelID:   modelID,
			Supported: cat.ImageModelIDs,
		}
	}

	if _, ok := model.Resolutions[resolution]; !ok {
		return &UnsupportedResolutionError{
			ModelID:    modelID,
			Resolution: resolution,
			Supported:  model.SupportedResolutions,
		}
	}

	ratios := model.SupportedRatios[resolution]
	if len(ratios) > 0 {
		found := false
		for _, r := range ratios {
			if r == ratio {
				found = true
				break
			}
		}
		if !found {
			return &UnsupportedRatioError{
				ModelID:    modelID,
				Resolution: resolution,
				Ratio:      ratio,
				Supported:  ratios,
			}
		}
	}

	return nil
}

// ResolveSize validates the triple and returns its pixel size and ratio code.
// Validation passing without a size entry is a catalog defect and surfaces as
// a SizeLookupError rather than a silent default.
func (s *Store) ResolveSize(modelID, resolution, ratio string, info region.Info) (Resolution, error) {
	if err := s.Validate(modelID, resolution, ratio, info); err != nil {
		return Resolution{}, err
	}

	cat, err := s.Catalog(info)
	if err != nil {
		return Resolution{}, err
	}
	size, ok := cat.ImageModels[modelID].Resolutions[resolution][ratio]
	if !ok {
		return Resolution{}, &SizeLookupError{ModelID: modelID, Resolution: resolution, Ratio: ratio}
	}

	return Resolution{
		Width:          size.Width,
		Height:         size.Height,
		RatioType:      RatioType(ratio),
		ResolutionType: resolution,
	}, nil
}
