package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jimengapi/internal/region"
)

func initializedStore(t *testing.T) *Store {
	t.Helper()
	store, _, _ := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return store
}

func TestValidateUnknownModel(t *testing.T) {
	store := initializedStore(t)
	err := store.Validate("gpt-image", "2k", "1:1", region.US)
	var modelErr *UnsupportedModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("got %v, want UnsupportedModelError", err)
	}
	if !strings.Contains(err.Error(), "jimeng-4.1") {
		t.Errorf("error does not list the supported models: %v", err)
	}
	if !strings.Contains(err.Error(), "the US site") {
		t.Errorf("error does not name the site: %v", err)
	}
}

func TestValidateUnknownResolution(t *testing.T) {
	store := initializedStore(t)
	err := store.Validate("jimeng-4.1", "8k", "1:1", region.US)
	var resErr *UnsupportedResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("got %v, want UnsupportedResolutionError", err)
	}
	if !strings.Contains(err.Error(), "1k") || !strings.Contains(err.Error(), "2k") {
		t.Errorf("error does not list the supported resolutions: %v", err)
	}
}

func TestValidateUnknownRatio(t *testing.T) {
	store := initializedStore(t)
	err := store.Validate("jimeng-4.1", "2k", "9:16", region.US)
	var ratioErr *UnsupportedRatioError
	if !errors.As(err, &ratioErr) {
		t.Fatalf("got %v, want UnsupportedRatioError", err)
	}
}

func TestValidateEmptyRatioSetAcceptsAnyRatio(t *testing.T) {
	store := initializedStore(t)
	if err := store.Validate("jimeng-3.0", "2k", "21:9", region.US); err != nil {
		t.Fatalf("Validate with an open ratio set: %v", err)
	}
}

func TestValidateChecksModelBeforeResolution(t *testing.T) {
	store := initializedStore(t)
	err := store.Validate("gpt-image", "8k", "42:1", region.US)
	var modelErr *UnsupportedModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("got %v, want the model error to win", err)
	}
}

func TestResolveSize(t *testing.T) {
	store := initializedStore(t)
	got, err := store.ResolveSize("jimeng-4.1", "2k", "16:9", region.CN)
	if err != nil {
		t.Fatalf("ResolveSize: %v", err)
	}
	want := Resolution{Width: 1664, Height: 936, RatioType: 3, ResolutionType: "2k"}
	if got != want {
		t.Errorf("ResolveSize = %+v, want %+v", got, want)
	}
}

func TestResolveSizeLookupInconsistency(t *testing.T) {
	store := initializedStore(t)
	// The 2k bucket of jimeng-3.0 validates any ratio but holds no sizes.
	_, err := store.ResolveSize("jimeng-3.0", "2k", "16:9", region.US)
	var sizeErr *SizeLookupError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("got %v, want SizeLookupError", err)
	}
}

func TestResolveSizeNotInitialized(t *testing.T) {
	store, _, _ := newTestStore(t)
	if _, err := store.ResolveSize("jimeng-4.1", "2k", "1:1", region.US); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("got %v, want ErrNotInitialized", err)
	}
}

func TestModelReqKey(t *testing.T) {
	store := initializedStore(t)
	key, ok := store.ModelReqKey("jimeng-4.1", region.JP)
	if !ok || key != "high_aes_general_v41" {
		t.Errorf("ModelReqKey = %q, %v", key, ok)
	}
	if _, ok := store.ModelReqKey("gpt-image", region.JP); ok {
		t.Errorf("unknown model must not resolve a request key")
	}
}

func TestSupportedModels(t *testing.T) {
	store := initializedStore(t)
	ids, err := store.SupportedModels(region.SG)
	if err != nil {
		t.Fatalf("SupportedModels: %v", err)
	}
	if len(ids) != 2 || ids[0] != "jimeng-4.1" || ids[1] != "jimeng-3.0" {
		t.Errorf("SupportedModels = %v", ids)
	}
}
