package catalog

import "jimengapi/internal/region"

// Raw vendor payload shapes. Only the fields this service consumes are
// declared; the vendor sends more and we ignore it.

// RawRatioSize is one ratio/size pair inside a resolution bucket.
type RawRatioSize struct {
	RatioType int `json:"ratio_type"`
	Width     int `json:"width"`
	Height    int `json:"height"`
}

// RawRangeConfig carries free-size limits for models that allow them.
type RawRangeConfig struct {
	MinLength   int `json:"min_length"`
	MaxLength   int `json:"max_length"`
	MaxPixelNum int `json:"max_pixel_num"`
}

// RawResolution is one named resolution bucket of an image model.
type RawResolution struct {
	ResolutionName   string          `json:"resolution_name,omitempty"`
	ImageRatioSizes  []RawRatioSize  `json:"image_ratio_sizes"`
	ImageRangeConfig *RawRangeConfig `json:"image_range_config,omitempty"`
}

// RawImageModel is one entry of a site's image model list.
type RawImageModel struct {
	ModelName     string                   `json:"model_name"`
	ModelReqKey   string                   `json:"model_req_key"`
	ModelTip      string                   `json:"model_tip,omitempty"`
	IconURL       string                   `json:"icon_url,omitempty"`
	IsNewModel    bool                     `json:"is_new_model,omitempty"`
	Feats         []string                 `json:"feats,omitempty"`
	ResolutionMap map[string]RawResolution `json:"resolution_map,omitempty"`
}

// RawEnumVal is the payload of an enum-typed video option.
type RawEnumVal struct {
	EnumType      string    `json:"enum_type,omitempty"`
	StringValue   []string  `json:"string_value,omitempty"`
	IntValue      []int     `json:"int_value,omitempty"`
	DoubleValue   []float64 `json:"double_value,omitempty"`
	DefaultValIdx int       `json:"default_val_idx"`
}

// RawSlideBarVal is the payload of a slider-typed video option.
type RawSlideBarVal struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// RawVideoOption is a tagged variant keyed by value_type.
type RawVideoOption struct {
	Key              string          `json:"key"`
	ValueType        string          `json:"value_type"`
	EnumVal          *RawEnumVal     `json:"enum_val,omitempty"`
	SlideBarVal      *RawSlideBarVal `json:"slide_bar_val,omitempty"`
	ForbiddenDisplay bool            `json:"forbidden_display,omitempty"`
}

// RawVideoIcon carries the icon URLs of a video model.
type RawVideoIcon struct {
	ImageURL string `json:"image_url,omitempty"`
	ImageURI string `json:"image_uri,omitempty"`
}

// RawVideoModel is one entry of a site's video model list.
type RawVideoModel struct {
	ModelName   string           `json:"model_name"`
	ModelReqKey string           `json:"model_req_key"`
	ModelTip    string           `json:"model_tip,omitempty"`
	Icon        *RawVideoIcon    `json:"icon,omitempty"`
	Options     []RawVideoOption `json:"options,omitempty"`
	Extra       map[string]any   `json:"extra,omitempty"`
}

// SiteSnapshot holds the raw model lists persisted for one site. Nil slices
// round-trip as JSON null, which the loader treats the same as empty.
type SiteSnapshot struct {
	ImageModels []RawImageModel `json:"imageModels"`
	VideoModels []RawVideoModel `json:"videoModels"`
}

// Snapshot is the persisted multi-site document. The field names are the
// on-disk schema; they match the site keys in the region package.
type Snapshot struct {
	China       SiteSnapshot `json:"china"`
	US          SiteSnapshot `json:"US"`
	HK          SiteSnapshot `json:"HK"`
	JP          SiteSnapshot `json:"JP"`
	SG          SiteSnapshot `json:"SG"`
	LastUpdated string       `json:"lastUpdated"`
}

// Site returns a pointer to the snapshot slot for the given site key.
func (s *Snapshot) Site(site region.Site) *SiteSnapshot {
	switch site {
	case region.SiteCN:
		return &s.China
	case region.SiteUS:
		return &s.US
	case region.SiteHK:
		return &s.HK
	case region.SiteJP:
		return &s.JP
	case region.SiteSG:
		return &s.SG
	}
	return nil
}
