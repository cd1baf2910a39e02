package jimeng

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jimengapi/internal/catalog"
	"jimengapi/internal/region"
)

// siteEndpoint holds the per-site vendor endpoints and request headers.
type siteEndpoint struct {
	imageConfigURL string
	videoConfigURL string
	appID          string
	lan            string
	loc            string
}

var siteEndpoints = map[region.Site]siteEndpoint{
	region.SiteCN: {
		imageConfigURL: "https://jimeng.jianying.com/mweb/v1/get_common_config",
		videoConfigURL: "https://jimeng.jianying.com/mweb/v1/video_generate/get_common_config",
		appID:          "513695",
		lan:            "zh-Hans",
		loc:            "cn",
	},
	region.SiteUS: {
		imageConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/get_common_config",
		videoConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/video_generate/get_common_config",
		appID:          "513641",
		lan:            "en",
		loc:            "US",
	},
	region.SiteHK: {
		imageConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/get_common_config",
		videoConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/video_generate/get_common_config",
		appID:          "513641",
		lan:            "en",
		loc:            "HK",
	},
	region.SiteJP: {
		imageConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/get_common_config",
		videoConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/video_generate/get_common_config",
		appID:          "513641",
		lan:            "en",
		loc:            "JP",
	},
	region.SiteSG: {
		imageConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/get_common_config",
		videoConfigURL: "https://mweb-api-sg.capcut.com/mweb/v1/video_generate/get_common_config",
		appID:          "513641",
		lan:            "en",
		loc:            "SG",
	},
}

const (
	appVersion   = "8.4.0"
	webVersion   = "7.5.0"
	daVersion    = "3.3.4"
	aigcFeatures = "app_lip_sync"
	platformCode = "7"
)

// Options configures the config-API client.
type Options struct {
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
	// BaseURLOverride rewrites the endpoint host, for tests.
	BaseURLOverride string
}

// Client fetches per-site model configuration from the vendor.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
	override   string
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	log := zerolog.New(io.Discard)
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Client{httpClient: httpClient, log: log, override: strings.TrimRight(opts.BaseURLOverride, "/")}
}

type modelListData struct {
	ModelList []json.RawMessage `json:"model_list"`
	ImageData *struct {
		ModelList []json.RawMessage `json:"model_list"`
	} `json:"image_data"`
	VideoData *struct {
		ModelList []json.RawMessage `json:"model_list"`
	} `json:"video_data"`
}

type configResponse struct {
	Ret    string        `json:"ret"`
	ErrMsg string        `json:"errmsg"`
	Data   modelListData `json:"data"`
}

// FetchImageModels pulls one site's image model list.
func (c *Client) FetchImageModels(ctx context.Context, site region.Site) ([]catalog.RawImageModel, error) {
	endpoint, ok := siteEndpoints[site]
	if !ok {
		return nil, fmt.Errorf("jimeng: unknown site %q", site)
	}

	var body any = struct{}{}
	if site != region.SiteCN {
		body = map[string]any{"is_client_filter": true, "need_beta_model": true}
	}

	query := fmt.Sprintf("?needCache=true&needRefresh=false&aid=%s&web_version=%s&da_version=%s&aigc_features=%s",
		endpoint.appID, webVersion, daVersion, aigcFeatures)

	raw, err := c.post(ctx, c.rewrite(endpoint.imageConfigURL)+query, endpoint, body, true)
	if err != nil {
		return nil, err
	}

	models := make([]catalog.RawImageModel, 0, len(raw))
	for _, entry := range raw {
		var model catalog.RawImageModel
		if err := json.Unmarshal(entry, &model); err != nil {
			return nil, fmt.Errorf("jimeng: decode image model: %w", err)
		}
		models = append(models, model)
	}
	return models, nil
}

// FetchVideoModels pulls one site's video model list. The home site uses a
// different scene than the international ones.
func (c *Client) FetchVideoModels(ctx context.Context, site region.Site) ([]catalog.RawVideoModel, error) {
	endpoint, ok := siteEndpoints[site]
	if !ok {
		return nil, fmt.Errorf("jimeng: unknown site %q", site)
	}

	scene := "generate_video"
	if site == region.SiteCN {
		scene = "lip_sync_image_generate_video"
	}
	body := map[string]any{"scene": scene, "params": struct{}{}}

	query := fmt.Sprintf("?aid=%s&web_version=%s&da_version=%s&aigc_features=%s",
		endpoint.appID, webVersion, daVersion, aigcFeatures)

	raw, err := c.post(ctx, c.rewrite(endpoint.videoConfigURL)+query, endpoint, body, false)
	if err != nil {
		return nil, err
	}

	models := make([]catalog.RawVideoModel, 0, len(raw))
	for _, entry := range raw {
		var model catalog.RawVideoModel
		if err := json.Unmarshal(entry, &model); err != nil {
			return nil, fmt.Errorf("jimeng: decode video model: %w", err)
		}
		models = append(models, model)
	}
	return models, nil
}

func (c *Client) post(ctx context.Context, url string, endpoint siteEndpoint, body any, image bool) ([]json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("jimeng: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("jimeng: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("appid", endpoint.appID)
	req.Header.Set("appvr", appVersion)
	req.Header.Set("lan", endpoint.lan)
	req.Header.Set("loc", endpoint.loc)
	req.Header.Set("pf", platformCode)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jimeng: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jimeng: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jimeng: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded configResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("jimeng: decode response: %w", err)
	}
	if decoded.Ret != "0" {
		msg := decoded.ErrMsg
		if msg == "" {
			msg = "vendor returned error"
		}
		return nil, fmt.Errorf("jimeng: %s (ret=%s)", msg, decoded.Ret)
	}

	list := decoded.Data.ModelList
	// The home site's combined endpoint nests the lists one level deeper.
	if len(list) == 0 {
		if image && decoded.Data.ImageData != nil {
			list = decoded.Data.ImageData.ModelList
		}
		if !image && decoded.Data.VideoData != nil {
			list = decoded.Data.VideoData.ModelList
		}
	}

	c.log.Debug().Str("url", url).Int("models", len(list)).Msg("jimeng: fetched model list")
	return list, nil
}

// rewrite swaps the endpoint origin for the test override, when set.
func (c *Client) rewrite(url string) string {
	if c.override == "" {
		return url
	}
	idx := strings.Index(url, "/mweb/")
	if idx < 0 {
		return c.override
	}
	return c.override + url[idx:]
}
