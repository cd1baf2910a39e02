package draft

// The vendor's draft tree is a closed set of node kinds. Each one gets an
// explicit record type so field-presence rules are visible in the schema
// rather than buried in map assembly.

// LargeImageInfo carries the resolved output dimensions.
type LargeImageInfo struct {
	Type           string `json:"type"`
	ID             string `json:"id"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
	ResolutionType string `json:"resolution_type"`
}

// CoreParam is the generation parameter node shared by both ability kinds.
// ImageRatio is a pointer: the field is omitted exactly when intelligent
// ratio is in effect for a text-to-image request.
type CoreParam struct {
	Type             string         `json:"type"`
	ID               string         `json:"id"`
	Model            string         `json:"model"`
	Prompt           string         `json:"prompt"`
	NegativePrompt   *string        `json:"negative_prompt,omitempty"`
	Seed             *int           `json:"seed,omitempty"`
	SampleStrength   float64        `json:"sample_strength"`
	ImageRatio       *int           `json:"image_ratio,omitempty"`
	LargeImageInfo   LargeImageInfo `json:"large_image_info"`
	IntelligentRatio bool           `json:"intelligent_ratio"`
}

// GenOption toggles batch behaviour; always emitted with generate_all=false.
type GenOption struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	GenerateAll bool   `json:"generate_all"`
}

// GenerateAbility is the single-image generation ability node.
type GenerateAbility struct {
	Type      string     `json:"type"`
	ID        string     `json:"id"`
	CoreParam *CoreParam `json:"core_param"`
	GenOption GenOption  `json:"gen_option"`
}

// BlendImage describes one uploaded reference image inside a blend ability.
type BlendImage struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	SourceFrom   string `json:"source_from"`
	PlatformType int    `json:"platform_type"`
	Name         string `json:"name"`
	ImageURI     string `json:"image_uri"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Format       string `json:"format"`
	URI          string `json:"uri"`
}

// BlendAbilityItem is one byte_edit entry of the blend ability list.
type BlendAbilityItem struct {
	Type         string       `json:"type"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ImageURIList []string     `json:"image_uri_list"`
	ImageList    []BlendImage `json:"image_list"`
	Strength     float64      `json:"strength"`
}

// PromptPlaceholder links a prompt slot to an ability index.
type PromptPlaceholder struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	AbilityIndex int    `json:"ability_index"`
}

// BlendAbility is the multi-image composition ability node. MinVersion is
// present only when the request carries two or more input images.
type BlendAbility struct {
	Type                      string              `json:"type"`
	ID                        string              `json:"id"`
	MinVersion                string              `json:"min_version,omitempty"`
	MinFeatures               []string            `json:"min_features"`
	CoreParam                 *CoreParam          `json:"core_param"`
	AbilityList               []BlendAbilityItem  `json:"ability_list"`
	PromptPlaceholderInfoList []PromptPlaceholder `json:"prompt_placeholder_info_list"`
	PosteditParam             any                 `json:"postedit_param"`
}

// Abilities selects exactly one ability kind per component.
type Abilities struct {
	Type      string           `json:"type"`
	ID        string           `json:"id"`
	Generate  *GenerateAbility `json:"generate,omitempty"`
	Blend     *BlendAbility    `json:"blend,omitempty"`
	GenOption *GenOption       `json:"gen_option,omitempty"`
}

// ComponentMetadata records the creating platform.
type ComponentMetadata struct {
	Type                   string `json:"type"`
	ID                     string `json:"id"`
	CreatedPlatform        int    `json:"created_platform"`
	CreatedPlatformVersion string `json:"created_platform_version"`
	CreatedTimeInMS        string `json:"created_time_in_ms"`
	CreatedDID             string `json:"created_did"`
}

// Component is the image_base_component wrapper.
type Component struct {
	Type         string            `json:"type"`
	ID           string            `json:"id"`
	MinVersion   string            `json:"min_version"`
	AIGCMode     string            `json:"aigc_mode"`
	Metadata     ComponentMetadata `json:"metadata"`
	GenerateType string            `json:"generate_type"`
	Abilities    Abilities         `json:"abilities"`
}

// Draft is the outer draft_content document.
type Draft struct {
	Type            string      `json:"type"`
	ID              string      `json:"id"`
	MinVersion      string      `json:"min_version"`
	MinFeatures     []string    `json:"min_features"`
	IsFromTSN       bool        `json:"is_from_tsn"`
	Version         string      `json:"version"`
	MainComponentID string      `json:"main_component_id"`
	ComponentList   []Component `json:"component_list"`
}

// AbilitySource points a metrics ability at its input image. The URL keeps
// the browser blob format the vendor frontend produces.
type AbilitySource struct {
	ImageURL string `json:"imageUrl"`
}

// MetricsAbility is one abilityList entry inside sceneOptions.
type MetricsAbility struct {
	AbilityName string         `json:"abilityName"`
	Strength    float64        `json:"strength"`
	Source      *AbilitySource `json:"source,omitempty"`
}

// ReportParams is the vendor's VIP reporting block.
type ReportParams struct {
	EnterSource                      string `json:"enterSource"`
	VipSource                        string `json:"vipSource"`
	ExtraVipFunctionKey              string `json:"extraVipFunctionKey"`
	UseVipFunctionDetailsReporterHoc bool   `json:"useVipFunctionDetailsReporterHoc"`
}

// SceneOption records the billing-relevant scene descriptor. BenefitCount is
// omitted, not null, when the policy yields none.
type SceneOption struct {
	Type           string           `json:"type"`
	Scene          string           `json:"scene"`
	ModelReqKey    string           `json:"modelReqKey"`
	ResolutionType string           `json:"resolutionType"`
	AbilityList    []MetricsAbility `json:"abilityList"`
	ReportParams   ReportParams     `json:"reportParams"`
	BenefitCount   *int             `json:"benefitCount,omitempty"`
}

// MetricsExtra is the side JSON blob submitted next to the draft. The four
// template/regeneration fields are emitted (empty) only for multi-image
// requests.
type MetricsExtra struct {
	PromptSource    string  `json:"promptSource"`
	GenerateCount   int     `json:"generateCount"`
	EnterFrom       string  `json:"enterFrom"`
	SceneOptions    string  `json:"sceneOptions"`
	GenerateID      string  `json:"generateId"`
	IsRegenerate    bool    `json:"isRegenerate"`
	TemplateID      *string `json:"templateId,omitempty"`
	TemplateSource  *string `json:"templateSource,omitempty"`
	LastRequestID   *string `json:"lastRequestId,omitempty"`
	OriginRequestID *string `json:"originRequestId,omitempty"`
}

// Extend carries the root model of the submit request.
type Extend struct {
	RootModel string `json:"root_model"`
}

// HTTPCommonInfo carries the per-region assistant id.
type HTTPCommonInfo struct {
	AID int `json:"aid"`
}

// SubmitRequest is the outbound envelope handed to the transport layer.
type SubmitRequest struct {
	Extend         Extend         `json:"extend"`
	SubmitID       string         `json:"submit_id"`
	MetricsExtra   string         `json:"metrics_extra"`
	DraftContent   string         `json:"draft_content"`
	HTTPCommonInfo HTTPCommonInfo `json:"http_common_info"`
}
