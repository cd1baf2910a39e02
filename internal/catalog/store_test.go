package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jimengapi/internal/region"
)

// imageModelFixture is the canonical image model used across the package
// tests. The 2k bucket intentionally matches the vendor's published sizes.
func imageModelFixture() RawImageModel {
	return RawImageModel{
		ModelName:   "Image 4.1",
		ModelReqKey: "high_aes_general_v41",
		ResolutionMap: map[string]RawResolution{
			"1k": {ImageRatioSizes: []RawRatioSize{
				{RatioType: 1, Width: 1024, Height: 1024},
				{RatioType: 3, Width: 1024, Height: 576},
			}},
			"2k": {ImageRatioSizes: []RawRatioSize{
				{RatioType: 1, Width: 2048, Height: 2048},
				{RatioType: 3, Width: 1664, Height: 936},
			}},
		},
	}
}

// openRatioModelFixture declares a resolution bucket with no ratio entries,
// which the resolver treats as accepting every ratio.
func openRatioModelFixture() RawImageModel {
	return RawImageModel{
		ModelName:   "Image 3.0",
		ModelReqKey: "high_aes_general_v30l:general_v3.0_18b",
		ResolutionMap: map[string]RawResolution{
			"1k": {ImageRatioSizes: []RawRatioSize{
				{RatioType: 1, Width: 1328, Height: 1328},
			}},
			"2k": {},
		},
	}
}

func testSnapshot() *Snapshot {
	snap := &Snapshot{LastUpdated: "2026-08-29T00:00:00Z"}
	for _, site := range region.Sites() {
		snap.Site(site).ImageModels = []RawImageModel{imageModelFixture(), openRatioModelFixture()}
	}
	snap.China.VideoModels = []RawVideoModel{{
		ModelName:   "Video 3.0",
		ModelReqKey: "dreamina_ic_generate_video_model_vgfm_3.0",
	}}
	return snap
}

type stubSnapshots struct {
	snap    *Snapshot
	loadErr error
	saveErr error
	saved   *Snapshot
}

func (s *stubSnapshots) Load(ctx context.Context) (*Snapshot, error) {
	return s.snap, s.loadErr
}

func (s *stubSnapshots) Save(ctx context.Context, snap *Snapshot) error {
	s.saved = snap
	return s.saveErr
}

type stubFetcher struct {
	images   map[region.Site][]RawImageModel
	videos   map[region.Site][]RawVideoModel
	imageErr map[region.Site]error
	videoErr map[region.Site]error
}

func (f *stubFetcher) FetchImageModels(ctx context.Context, site region.Site) ([]RawImageModel, error) {
	if err := f.imageErr[site]; err != nil {
		return nil, err
	}
	return f.images[site], nil
}

func (f *stubFetcher) FetchVideoModels(ctx context.Context, site region.Site) ([]RawVideoModel, error) {
	if err := f.videoErr[site]; err != nil {
		return nil, err
	}
	return f.videos[site], nil
}

func newTestStore(t *testing.T) (*Store, *stubSnapshots, *stubFetcher) {
	t.Helper()
	snapshots := &stubSnapshots{snap: testSnapshot()}
	fetcher := &stubFetcher{
		images:   make(map[region.Site][]RawImageModel),
		videos:   make(map[region.Site][]RawVideoModel),
		imageErr: make(map[region.Site]error),
		videoErr: make(map[region.Site]error),
	}
	for _, site := range region.Sites() {
		fetcher.images[site] = []RawImageModel{imageModelFixture(), openRatioModelFixture()}
	}
	store := NewStore(StoreOptions{
		Snapshots: snapshots,
		Fetcher:   fetcher,
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
	})
	return store, snapshots, fetcher
}

func TestStoreInitialize(t *testing.T) {
	store, _, _ := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	// Idempotent.
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}

	for _, site := range region.Sites() {
		cat, err := store.Catalog(region.FromSite(site))
		if err != nil {
			t.Fatalf("Catalog(%s): %v", site, err)
		}
		if len(cat.ImageModelIDs) != 2 {
			t.Errorf("site %s: %d image models, want 2", site, len(cat.ImageModelIDs))
		}
	}

	status := store.Status()
	if status[region.SiteCN].VideoModelCount != 1 {
		t.Errorf("CN video count = %d, want 1", status[region.SiteCN].VideoModelCount)
	}
	if status[region.SiteUS].LastUpdated != "2026-08-29T00:00:00Z" {
		t.Errorf("US LastUpdated = %q", status[region.SiteUS].LastUpdated)
	}
}

func TestStoreInitializeFailsOnEmptySite(t *testing.T) {
	store, snapshots, _ := newTestStore(t)
	snapshots.snap.US.ImageModels = nil
	if err := store.Initialize(context.Background()); !errors.Is(err, ErrNoImageModels) {
		t.Fatalf("Initialize with empty US site: got %v, want ErrNoImageModels", err)
	}
	if _, err := store.Catalog(region.CN); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Catalog after failed Initialize: got %v, want ErrNotInitialized", err)
	}
}

func TestStoreInitializeFailsOnLoadError(t *testing.T) {
	store, snapshots, _ := newTestStore(t)
	snapshots.loadErr = errors.New("disk gone")
	err := store.Initialize(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("Initialize: got %v, want wrapped load error", err)
	}
}

func TestStoreRefreshBeforeInitialize(t *testing.T) {
	store, _, _ := newTestStore(t)
	if _, err := store.Refresh(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Refresh before Initialize: got %v, want ErrNotInitialized", err)
	}
}

func TestStoreRefresh(t *testing.T) {
	store, snapshots, fetcher := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	fetcher.imageErr[region.SiteHK] = errors.New("vendor down")
	fetcher.videos[region.SiteCN] = []RawVideoModel{{
		ModelName:   "Video 3.0 Pro",
		ModelReqKey: "dreamina_ic_generate_video_model_vgfm_3.0_pro",
	}}

	report, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !report.Success {
		t.Errorf("Success = false, want true")
	}
	if report.Message != "4/5 sites refreshed" {
		t.Errorf("Message = %q, want 4/5 sites refreshed", report.Message)
	}
	if report.PersistError != "" {
		t.Errorf("PersistError = %q, want empty", report.PersistError)
	}

	hk := report.Sites[region.SiteHK]
	if hk.Image.State != StateError || !strings.Contains(hk.Image.Error, "vendor down") {
		t.Errorf("HK image outcome = %+v", hk.Image)
	}
	cn := report.Sites[region.SiteCN]
	if cn.Image.State != StateOK || cn.Image.ModelCount != 2 {
		t.Errorf("CN image outcome = %+v", cn.Image)
	}
	if cn.Video.State != StateOK || cn.Video.ModelCount != 1 {
		t.Errorf("CN video outcome = %+v", cn.Video)
	}
	us := report.Sites[region.SiteUS]
	if us.Video.State != StateEmpty {
		t.Errorf("US video outcome = %+v, want empty state", us.Video)
	}

	// The failed site keeps its previously loaded catalog.
	cat, err := store.Catalog(region.HK)
	if err != nil {
		t.Fatalf("Catalog(HK): %v", err)
	}
	if cat.LastUpdated != "2026-08-29T00:00:00Z" {
		t.Errorf("HK catalog was replaced despite the failed fetch")
	}

	// The persisted snapshot carries fresh data for successes and the
	// previous data for the failed site.
	if snapshots.saved == nil {
		t.Fatalf("snapshot was not persisted")
	}
	if snapshots.saved.LastUpdated != "2026-08-30T12:00:00Z" {
		t.Errorf("saved LastUpdated = %q", snapshots.saved.LastUpdated)
	}
	if len(snapshots.saved.HK.ImageModels) != 2 {
		t.Errorf("failed site lost its previous snapshot data")
	}
	if len(snapshots.saved.China.VideoModels) != 1 {
		t.Errorf("CN video models missing from the saved snapshot")
	}
}

func TestStoreRefreshKeepsFreshVideoListOnImageFailure(t *testing.T) {
	store, snapshots, fetcher := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	fetcher.imageErr[region.SiteUS] = errors.New("vendor down")
	fetcher.videos[region.SiteUS] = []RawVideoModel{{
		ModelName:   "Video 3.0",
		ModelReqKey: "dreamina_ic_generate_video_model_vgfm_3.0",
	}}

	report, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	us := report.Sites[region.SiteUS]
	if us.Image.State != StateError || us.Video.State != StateOK {
		t.Fatalf("US outcomes = %+v", us)
	}

	// The image failure carries the previous image list forward; the video
	// list fetched in the same pass must survive into the saved snapshot.
	if snapshots.saved == nil {
		t.Fatalf("snapshot was not persisted")
	}
	if len(snapshots.saved.US.ImageModels) != 2 {
		t.Errorf("US image models = %d, want the previous 2", len(snapshots.saved.US.ImageModels))
	}
	if len(snapshots.saved.US.VideoModels) != 1 {
		t.Errorf("fresh US video list lost: %d models in the saved snapshot", len(snapshots.saved.US.VideoModels))
	}
}

func TestStoreCatalogConsistentUnderRefresh(t *testing.T) {
	store, _, fetcher := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	// The refreshed catalogs carry a third model so old and new are
	// distinguishable from a reader.
	for _, site := range region.Sites() {
		fetcher.images[site] = append(fetcher.images[site], RawImageModel{
			ModelName:   "Image 4.0",
			ModelReqKey: "high_aes_general_v40",
			ResolutionMap: map[string]RawResolution{
				"1k": {ImageRatioSizes: []RawRatioSize{
					{RatioType: 1, Width: 1024, Height: 1024},
				}},
			},
		})
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cat, err := store.Catalog(region.US)
				if err != nil {
					t.Errorf("Catalog during refresh: %v", err)
					return
				}
				n := len(cat.ImageModelIDs)
				if n != 2 && n != 3 {
					t.Errorf("catalog with %d models, want the old 2 or the new 3", n)
					return
				}
				if len(cat.ImageModels) != n || len(cat.ReqKeyByID) != n || len(cat.IDByReqKey) != n {
					t.Errorf("torn catalog: %d ids, %d models, %d/%d key mappings",
						n, len(cat.ImageModels), len(cat.ReqKeyByID), len(cat.IDByReqKey))
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if _, err := store.Refresh(context.Background()); err != nil {
			t.Errorf("Refresh: %v", err)
			break
		}
	}
	close(stop)
	wg.Wait()

	cat, err := store.Catalog(region.US)
	if err != nil {
		t.Fatalf("Catalog after refresh: %v", err)
	}
	if len(cat.ImageModelIDs) != 3 {
		t.Errorf("refreshed catalog not visible: %v", cat.ImageModelIDs)
	}
}

func TestStoreRefreshPersistError(t *testing.T) {
	store, snapshots, _ := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	snapshots.saveErr = errors.New("readonly filesystem")

	report, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !report.Success {
		t.Errorf("a persist failure must not fail the refresh itself")
	}
	if !strings.Contains(report.PersistError, "readonly filesystem") {
		t.Errorf("PersistError = %q", report.PersistError)
	}
}

func TestStoreRefreshAllSitesFail(t *testing.T) {
	store, snapshots, fetcher := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	snapshots.saved = nil
	for _, site := range region.Sites() {
		fetcher.imageErr[site] = errors.New("offline")
	}

	report, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if report.Success {
		t.Errorf("Success = true with every fetch failing")
	}
	if report.Message != "0/5 sites refreshed" {
		t.Errorf("Message = %q", report.Message)
	}
	if snapshots.saved != nil {
		t.Errorf("snapshot must not be persisted when nothing was refreshed")
	}
	// Queries keep serving the catalogs from Initialize.
	if _, err := store.Catalog(region.US); err != nil {
		t.Errorf("Catalog(US) after failed refresh: %v", err)
	}
}
