package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"jimengapi/internal/region"
)

// reqKeyToID maps known vendor request keys to stable external model ids.
// Exact matches here win over every name-based heuristic.
var reqKeyToID = map[string]string{
	"high_aes_general_v41":                                "jimeng-4.1",
	"high_aes_general_v40l":                               "jimeng-4.5",
	"high_aes_general_v40":                                "jimeng-4.0",
	"high_aes_general_v30l_art:general_v3.0_18b":          "jimeng-3.1",
	"high_aes_general_v30l_art_fangzhou:general_v3.0_18b": "jimeng-3.1",
	"high_aes_general_v30l:general_v3.0_18b":              "jimeng-3.0",
	"high_aes_general_v20_L:general_v2.0_L":               "jimeng-2.1",
	"high_aes_general_v21_L:general_v2.1_L":               "jimeng-2.1",
	"high_aes_general_v20:general_v2.0":                   "jimeng-2.0",
	"high_aes_general_v14:general_v1.4":                   "jimeng-1.4",
	"high_aes_general_v14_xl:xl_v1.4":                     "jimeng-xl-pro",
	"text2img_xl_sft":                                     "jimeng-xl-pro",
	"external_model_gemini_flash_image_v25":               "nanobanana",
	"dreamina_image_lib_1":                                "nanobananapro",
}

// nameRule matches when every marker appears in the lowercased display name.
// The rule order is a contract: more specific markers come first, so "4.1"
// is tested before "4" ever would be, and "banana"+"pro" before "banana".
type nameRule struct {
	markers []string
	id      string
}

var imageNameRules = []nameRule{
	{markers: []string{"4.5"}, id: "jimeng-4.5"},
	{markers: []string{"4.1"}, id: "jimeng-4.1"},
	{markers: []string{"4.0"}, id: "jimeng-4.0"},
	{markers: []string{"3.1"}, id: "jimeng-3.1"},
	{markers: []string{"3.0"}, id: "jimeng-3.0"},
	{markers: []string{"2.1"}, id: "jimeng-2.1"},
	{markers: []string{"2.0 pro"}, id: "jimeng-2.1"},
	{markers: []string{"2.0"}, id: "jimeng-2.0"},
	{markers: []string{"banana", "pro"}, id: "nanobananapro"},
	{markers: []string{"banana"}, id: "nanobanana"},
}

// videoNameRule matches when any alias appears in the lowercased display
// name. "pro"/"fast" variants precede their bare versions.
type videoNameRule struct {
	aliases []string
	id      string
}

var videoNameRules = []videoNameRule{
	{aliases: []string{"video 3.0 pro", "3.0 pro", "视频 3.0 pro"}, id: "video-3.0-pro"},
	{aliases: []string{"video 3.0 fast", "3.0 fast", "视频 3.0 fast"}, id: "video-3.0-fast"},
	{aliases: []string{"video 3.0", "视频 3.0"}, id: "video-3.0"},
	{aliases: []string{"video s2.0 pro", "s2.0 pro"}, id: "video-s2.0-pro"},
	{aliases: []string{"sora 2", "sora2"}, id: "sora-2"},
	{aliases: []string{"veo 3.1", "veo3.1"}, id: "veo-3.1"},
	{aliases: []string{"veo 3", "veo3"}, id: "veo-3"},
}

// ImageModelID derives the stable external id for an image model. Order:
// exact request-key table, then name markers, then request-key normalization.
func ImageModelID(reqKey, name string) string {
	if id, ok := reqKeyToID[reqKey]; ok {
		return id
	}
	lower := strings.ToLower(name)
	for _, rule := range imageNameRules {
		matched := true
		for _, marker := range rule.markers {
			if !strings.Contains(lower, marker) {
				matched = false
				break
			}
		}
		if matched {
			return rule.id
		}
	}
	// Fallback: strip the colon-delimited variant suffix, then rewrite the
	// vendor prefix into the canonical one.
	base, _, _ := strings.Cut(reqKey, ":")
	return strings.Replace(base, "high_aes_general_", "jimeng-", 1)
}

// VideoModelID derives the stable external id for a video model. Name markers
// are tried first; the fallback normalizes the vendor request key.
func VideoModelID(reqKey, name string) string {
	lower := strings.ToLower(name)
	for _, rule := range videoNameRules {
		for _, alias := range rule.aliases {
			if strings.Contains(lower, alias) {
				return rule.id
			}
		}
	}
	id := strings.Replace(reqKey, "dreamina_ic_generate_video_model_", "", 1)
	id = strings.Replace(id, "dreamina_", "", 1)
	return strings.ReplaceAll(id, "_", "-")
}

// Parser normalizes raw vendor model lists into SiteCatalog values.
type Parser struct {
	log zerolog.Logger
}

// NewParser constructs a parser that reports dropped entries to the logger.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// ParseSite builds one region's catalog. The image model list must be
// non-empty; an absent video list yields an empty video catalog.
func (p *Parser) ParseSite(site region.Site, images []RawImageModel, videos []RawVideoModel, lastUpdated string) (*SiteCatalog, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("site %q: %w", site, ErrNoImageModels)
	}

	cat := &SiteCatalog{
		ImageModels: make(map[string]*ImageModel, len(images)),
		ReqKeyByID:  make(map[string]string, len(images)),
		IDByReqKey:  make(map[string]string, len(images)),
		VideoModels: make(map[string]*VideoModel, len(videos)),
		LastUpdated: lastUpdated,
	}

	for _, raw := range images {
		if raw.ModelReqKey == "" {
			p.log.Warn().Str("site", string(site)).Str("model_name", raw.ModelName).
				Msg("catalog: skipping image model without request key")
			continue
		}
		model := p.parseImageModel(site, raw)
		if _, seen := cat.ImageModels[model.ID]; !seen {
			cat.ImageModelIDs = append(cat.ImageModelIDs, model.ID)
		}
		cat.ImageModels[model.ID] = model
		cat.ReqKeyByID[model.ID] = raw.ModelReqKey
		cat.IDByReqKey[raw.ModelReqKey] = model.ID
	}

	for _, raw := range videos {
		if raw.ModelReqKey == "" {
			p.log.Warn().Str("site", string(site)).Str("model_name", raw.ModelName).
				Msg("catalog: skipping video model without request key")
			continue
		}
		model := parseVideoModel(raw)
		if _, seen := cat.VideoModels[model.ID]; !seen {
			cat.VideoModelIDs = append(cat.VideoModelIDs, model.ID)
		}
		cat.VideoModels[model.ID] = model
	}

	return cat, nil
}

func (p *Parser) parseImageModel(site region.Site, raw RawImageModel) *ImageModel {
	model := &ImageModel{
		ID:              ImageModelID(raw.ModelReqKey, raw.ModelName),
		ReqKey:          raw.ModelReqKey,
		Name:            raw.ModelName,
		Tip:             raw.ModelTip,
		IconURL:         raw.IconURL,
		IsNew:           raw.IsNewModel,
		Feats:           raw.Feats,
		Resolutions:     make(map[string]map[string]Size, len(raw.ResolutionMap)),
		SupportedRatios: make(map[string][]string, len(raw.ResolutionMap)),
	}

	// JSON objects carry no order; sort bucket names so listings and
	// validation messages stay deterministic.
	names := make([]string, 0, len(raw.ResolutionMap))
	for resolution := range raw.ResolutionMap {
		names = append(names, resolution)
	}
	sort.Strings(names)

	for _, resolution := range names {
		bucket := raw.ResolutionMap[resolution]
		model.SupportedResolutions = append(model.SupportedResolutions, resolution)
		sizes := make(map[string]Size, len(bucket.ImageRatioSizes))
		ratios := []string{}
		for _, entry := range bucket.ImageRatioSizes {
			ratio, ok := RatioString(entry.RatioType)
			if !ok {
				// Partial vendor data is expected; drop the pair, keep the model.
				p.log.Debug().Str("site", string(site)).Str("model", model.ID).
					Str("resolution", resolution).Int("ratio_type", entry.RatioType).
					Msg("catalog: dropping unknown ratio type")
				continue
			}
			sizes[ratio] = Size{Width: entry.Width, Height: entry.Height}
			ratios = append(ratios, ratio)
		}
		model.Resolutions[resolution] = sizes
		model.SupportedRatios[resolution] = ratios
	}

	return model
}

func parseVideoModel(raw RawVideoModel) *VideoModel {
	model := &VideoModel{
		ID:     VideoModelID(raw.ModelReqKey, raw.ModelName),
		ReqKey: raw.ModelReqKey,
		Name:   raw.ModelName,
		Tip:    raw.ModelTip,
	}
	if raw.Icon != nil {
		model.IconURL = raw.Icon.ImageURL
	}
	if src, ok := raw.Extra["model_source"].(string); ok {
		model.Source = src
	}
	model.Options = make([]VideoOption, 0, len(raw.Options))
	for _, opt := range raw.Options {
		parsed := VideoOption{
			Key:       opt.Key,
			ValueType: opt.ValueType,
			Hidden:    opt.ForbiddenDisplay,
		}
		switch {
		case opt.ValueType == "enum" && opt.EnumVal != nil:
			switch {
			case opt.EnumVal.StringValue != nil:
				for _, v := range opt.EnumVal.StringValue {
					parsed.Values = append(parsed.Values, v)
				}
			case opt.EnumVal.IntValue != nil:
				for _, v := range opt.EnumVal.IntValue {
					parsed.Values = append(parsed.Values, v)
				}
			case opt.EnumVal.DoubleValue != nil:
				for _, v := range opt.EnumVal.DoubleValue {
					parsed.Values = append(parsed.Values, v)
				}
			}
			idx := opt.EnumVal.DefaultValIdx
			parsed.DefaultIndex = &idx
		case opt.ValueType == "slide_bar" && opt.SlideBarVal != nil:
			lo, hi := opt.SlideBarVal.Min, opt.SlideBarVal.Max
			step, def := opt.SlideBarVal.Step, opt.SlideBarVal.Default
			parsed.Min, parsed.Max, parsed.Step, parsed.Default = &lo, &hi, &step, &def
		}
		model.Options = append(model.Options, parsed)
	}
	return model
}
