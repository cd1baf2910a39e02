package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotInitialized is returned by queries before Initialize has run.
	ErrNotInitialized = errors.New("catalog: not initialized")
	// ErrNoImageModels marks a site whose image model list is empty or absent.
	// A site cannot be served without at least one image model.
	ErrNoImageModels = errors.New("catalog: image model list is empty")
)

// UnsupportedModelError reports a model id unknown to the region's catalog.
type UnsupportedModelError struct {
	Site      string
	ModelID   string
	Supported []string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("%s does not support model %q. Supported models: %s",
		e.Site, e.ModelID, strings.Join(e.Supported, ", "))
}

// UnsupportedResolutionError reports a resolution the model does not declare.
type UnsupportedResolutionError struct {
	ModelID    string
	Resolution string
	Supported  []string
}

func (e *UnsupportedResolutionError) Error() string {
	return fmt.Sprintf("model %q does not support resolution %q. Supported resolutions: %s",
		e.ModelID, e.Resolution, strings.Join(e.Supported, ", "))
}

// UnsupportedRatioError reports a ratio outside the declared set for a
// resolution. It is only produced when the declared set is non-empty.
type UnsupportedRatioError struct {
	ModelID    string
	Resolution string
	Ratio      string
	Supported  []string
}

func (e *UnsupportedRatioError) Error() string {
	return fmt.Sprintf("model %q does not support ratio %q at resolution %q. Supported ratios: %s",
		e.ModelID, e.Ratio, e.Resolution, strings.Join(e.Supported, ", "))
}

// SizeLookupError marks a data inconsistency: validation passed but no size
// entry exists. It indicates a defect in the catalog data, not a caller error.
type SizeLookupError struct {
	ModelID    string
	Resolution string
	Ratio      string
}

func (e *SizeLookupError) Error() string {
	return fmt.Sprintf("catalog: no size entry for model %q at resolution %q ratio %q",
		e.ModelID, e.Resolution, e.Ratio)
}
