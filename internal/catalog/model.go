package catalog

// Size is a pixel dimension pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageModel is the normalized form of one image model.
type ImageModel struct {
	ID      string   `json:"modelId"`
	ReqKey  string   `json:"modelReqKey"`
	Name    string   `json:"modelName"`
	Tip     string   `json:"modelTip,omitempty"`
	IconURL string   `json:"iconUrl,omitempty"`
	IsNew   bool     `json:"isNew,omitempty"`
	Feats   []string `json:"feats,omitempty"`

	// Resolutions maps a resolution name to the ratio → size table.
	Resolutions map[string]map[string]Size `json:"resolutionMap"`
	// SupportedResolutions preserves the vendor's bucket order.
	SupportedResolutions []string `json:"supportedResolutions"`
	// SupportedRatios lists the accepted ratio strings per resolution, in the
	// order the vendor declared them. An empty list means any ratio.
	SupportedRatios map[string][]string `json:"supportedRatios"`
}

// VideoOption is the normalized form of one video model option. Enum options
// carry Values/DefaultIndex, sliders carry Min/Max/Step/Default.
type VideoOption struct {
	Key          string   `json:"key"`
	ValueType    string   `json:"valueType"`
	Values       []any    `json:"values,omitempty"`
	DefaultIndex *int     `json:"defaultIndex,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Step         *float64 `json:"step,omitempty"`
	Default      *float64 `json:"defaultValue,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
}

// VideoModel is the normalized form of one video model.
type VideoModel struct {
	ID      string        `json:"modelId"`
	ReqKey  string        `json:"modelReqKey"`
	Name    string        `json:"modelName"`
	Tip     string        `json:"modelTip,omitempty"`
	IconURL string        `json:"iconUrl,omitempty"`
	Source  string        `json:"modelSource,omitempty"`
	Options []VideoOption `json:"options"`
}

// SiteCatalog is one region's normalized catalog. It is built in one piece and
// never mutated afterwards; the store swaps whole values on refresh.
type SiteCatalog struct {
	// ImageModels is keyed by the stable external model id.
	ImageModels map[string]*ImageModel
	// ImageModelIDs preserves the vendor list order (the first entry is the
	// vendor's default model).
	ImageModelIDs []string
	// ReqKeyByID and IDByReqKey hold the id assignment in both directions.
	ReqKeyByID map[string]string
	IDByReqKey map[string]string

	VideoModels   map[string]*VideoModel
	VideoModelIDs []string

	LastUpdated string
}

// DefaultModelID is returned when a site has no usable default.
const DefaultModelID = "jimeng-4.1"

// DefaultModel returns the id of the vendor's first-listed image model.
func (c *SiteCatalog) DefaultModel() string {
	if c == nil || len(c.ImageModelIDs) == 0 {
		return DefaultModelID
	}
	return c.ImageModelIDs[0]
}
