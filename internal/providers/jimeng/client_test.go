package jimeng

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jimengapi/internal/region"
)

func TestFetchImageModelsInternational(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mweb/v1/get_common_config" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"ret":"0","data":{"model_list":[{"model_name":"Image 4.1","model_req_key":"high_aes_general_v41"}]}}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURLOverride: srv.URL})
	models, err := client.FetchImageModels(context.Background(), region.SiteUS)
	if err != nil {
		t.Fatalf("FetchImageModels: %v", err)
	}
	if len(models) != 1 || models[0].ModelReqKey != "high_aes_general_v41" {
		t.Errorf("models = %+v", models)
	}

	if gotBody["is_client_filter"] != true || gotBody["need_beta_model"] != true {
		t.Errorf("international request body = %v", gotBody)
	}
	if gotHeaders.Get("appid") != "513641" || gotHeaders.Get("loc") != "US" {
		t.Errorf("headers = appid %q loc %q", gotHeaders.Get("appid"), gotHeaders.Get("loc"))
	}
	if !strings.Contains(gotQuery, "aid=513641") || !strings.Contains(gotQuery, "da_version=3.3.4") {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestFetchImageModelsHomeSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if len(body) != 0 {
			t.Errorf("home site body = %v, want empty object", body)
		}
		if r.Header.Get("appid") != "513695" || r.Header.Get("lan") != "zh-Hans" {
			t.Errorf("headers = appid %q lan %q", r.Header.Get("appid"), r.Header.Get("lan"))
		}
		// The combined endpoint nests the list under image_data.
		w.Write([]byte(`{"ret":"0","data":{"image_data":{"model_list":[{"model_name":"Image 4.0","model_req_key":"high_aes_general_v40"}]}}}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURLOverride: srv.URL})
	models, err := client.FetchImageModels(context.Background(), region.SiteCN)
	if err != nil {
		t.Fatalf("FetchImageModels: %v", err)
	}
	if len(models) != 1 || models[0].ModelReqKey != "high_aes_general_v40" {
		t.Errorf("models = %+v", models)
	}
}

func TestFetchVideoModelsScene(t *testing.T) {
	scenes := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mweb/v1/video_generate/get_common_config" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body struct {
			Scene string `json:"scene"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		scenes[r.Header.Get("loc")] = body.Scene
		w.Write([]byte(`{"ret":"0","data":{"model_list":[{"model_name":"Video 3.0","model_req_key":"dreamina_ic_generate_video_model_vgfm_3.0"}]}}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURLOverride: srv.URL})
	for _, site := range []region.Site{region.SiteCN, region.SiteJP} {
		if _, err := client.FetchVideoModels(context.Background(), site); err != nil {
			t.Fatalf("FetchVideoModels(%s): %v", site, err)
		}
	}
	if scenes["cn"] != "lip_sync_image_generate_video" {
		t.Errorf("home site scene = %q", scenes["cn"])
	}
	if scenes["JP"] != "generate_video" {
		t.Errorf("international scene = %q", scenes["JP"])
	}
}

func TestVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ret":"1015","errmsg":"login expired"}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURLOverride: srv.URL})
	_, err := client.FetchImageModels(context.Background(), region.SiteUS)
	if err == nil || !strings.Contains(err.Error(), "login expired") || !strings.Contains(err.Error(), "1015") {
		t.Fatalf("err = %v, want vendor message and code", err)
	}
}

func TestHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURLOverride: srv.URL})
	_, err := client.FetchImageModels(context.Background(), region.SiteHK)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestUnknownSite(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.FetchImageModels(context.Background(), region.Site("mars")); err == nil {
		t.Fatalf("expected an error for an unknown site")
	}
}
