package draft

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"jimengapi/internal/catalog"
	"jimengapi/internal/region"
)

// Draft schema versions. Blend components require the newer minimum.
const (
	DraftVersion    = "3.3.4"
	DraftMinVersion = "3.0.2"
	BlendMinVersion = "3.2.9"
)

// Generation modes.
type Mode string

const (
	ModeTextToImage  Mode = "text2img"
	ModeImageToImage Mode = "img2img"
)

// Generate types of a draft component.
const (
	GenerateTypeGenerate = "generate"
	GenerateTypeBlend    = "blend"
)

// Scene types reported in metrics_extra.
const (
	SceneBasicGenerate = "ImageBasicGenerate"
	SceneMultiGenerate = "ImageMultiGenerate"
)

// intelligentRatioModels is the allow-list for the auto-ratio flag. For any
// other model the flag is forced off no matter what the caller asked for.
var intelligentRatioModels = map[string]bool{
	"jimeng-4.0": true,
	"jimeng-4.1": true,
}

// BenefitCount returns the entitlement count attached to a request, if any.
// The table is a billing signal and must not drift:
//   - multi-image requests never carry one, regardless of region
//   - CN never sets one
//   - US sets 4 only for jimeng-4.0 and jimeng-3.0
//   - HK/JP/SG set 4 for everything except nanobanana
func BenefitCount(userModel string, info region.Info, isMultiImage bool) (int, bool) {
	if isMultiImage {
		return 0, false
	}
	switch info.Site() {
	case region.SiteCN:
		return 0, false
	case region.SiteUS:
		if userModel == "jimeng-4.0" || userModel == "jimeng-3.0" {
			return 4, true
		}
		return 0, false
	case region.SiteHK, region.SiteJP, region.SiteSG:
		if userModel == "nanobanana" {
			return 0, false
		}
		return 4, true
	}
	return 0, false
}

// CoreParamOptions are the inputs for BuildCoreParam. Resolution must come
// from a successful catalog ResolveSize; the compiler does not re-validate.
type CoreParamOptions struct {
	UserModel        string
	Model            string
	Prompt           string
	ImageCount       int
	NegativePrompt   *string
	Seed             *int
	SampleStrength   float64
	Resolution       catalog.Resolution
	IntelligentRatio bool
	Mode             Mode
}

// BuildCoreParam assembles the core_param node.
//
// Image-to-image prompts get a prefix of 2 '#' per input image; text-to-image
// prompts are never prefixed. The image_ratio field is always present in
// image-to-image mode and otherwise only when intelligent ratio is off.
func BuildCoreParam(o CoreParamOptions) *CoreParam {
	intelligent := o.IntelligentRatio && intelligentRatioModels[o.UserModel]

	prompt := o.Prompt
	if o.Mode == ModeImageToImage {
		prompt = strings.Repeat("#", o.ImageCount*2) + prompt
	}

	param := &CoreParam{
		ID:             uuid.NewString(),
		Model:          o.Model,
		Prompt:         prompt,
		NegativePrompt: o.NegativePrompt,
		Seed:           o.Seed,
		SampleStrength: o.SampleStrength,
		LargeImageInfo: LargeImageInfo{
			ID:             uuid.NewString(),
			Height:         o.Resolution.Height,
			Width:          o.Resolution.Width,
			ResolutionType: o.Resolution.ResolutionType,
		},
		IntelligentRatio: intelligent,
	}

	if o.Mode == ModeImageToImage || !intelligent {
		ratio := o.Resolution.RatioType
		param.ImageRatio = &ratio
	}

	return param
}

// MetricsOptions are the inputs for BuildMetricsExtra.
type MetricsOptions struct {
	UserModel      string
	Region         region.Info
	SubmitID       string
	Scene          string
	ResolutionType string
	AbilityList    []MetricsAbility
	IsMultiImage   bool
}

// BuildMetricsExtra assembles the metrics_extra blob as a JSON string,
// applying the benefit-count policy and the multi-image field extensions.
func BuildMetricsExtra(o MetricsOptions) (string, error) {
	abilities := o.AbilityList
	if abilities == nil {
		abilities = []MetricsAbility{}
	}

	scene := SceneOption{
		Type:           "image",
		Scene:          o.Scene,
		ModelReqKey:    o.UserModel,
		ResolutionType: o.ResolutionType,
		AbilityList:    abilities,
		ReportParams: ReportParams{
			EnterSource:                      "generate",
			VipSource:                        "generate",
			ExtraVipFunctionKey:              o.UserModel + "-" + o.ResolutionType,
			UseVipFunctionDetailsReporterHoc: true,
		},
	}
	if count, ok := BenefitCount(o.UserModel, o.Region, o.IsMultiImage); ok {
		scene.BenefitCount = &count
	}

	sceneOptions, err := json.Marshal([]SceneOption{scene})
	if err != nil {
		return "", fmt.Errorf("draft: encode scene options: %w", err)
	}

	metrics := MetricsExtra{
		PromptSource:  "custom",
		GenerateCount: 1,
		EnterFrom:     "click",
		SceneOptions:  string(sceneOptions),
		GenerateID:    o.SubmitID,
	}
	if o.IsMultiImage {
		empty := ""
		metrics.TemplateID = &empty
		metrics.TemplateSource = &empty
		metrics.LastRequestID = &empty
		metrics.OriginRequestID = &empty
	}

	out, err := json.Marshal(metrics)
	if err != nil {
		return "", fmt.Errorf("draft: encode metrics: %w", err)
	}
	return string(out), nil
}

// DraftOptions are the inputs for BuildDraftContent.
type DraftOptions struct {
	ComponentID        string
	GenerateType       string
	CoreParam          *CoreParam
	AbilityList        []BlendAbilityItem
	PromptPlaceholders []PromptPlaceholder
	PosteditParam      any
	ImageCount         int
}

// BuildDraftContent assembles the draft_content document as a JSON string.
// Generate drafts use the base minimum version; blend drafts require the
// newer one, and the blend ability node itself carries a minimum version only
// when two or more input images are involved.
func BuildDraftContent(o DraftOptions) (string, error) {
	abilities := Abilities{ID: uuid.NewString()}
	minVersion := DraftMinVersion

	if o.GenerateType == GenerateTypeBlend {
		minVersion = BlendMinVersion
		blend := &BlendAbility{
			ID:                        uuid.NewString(),
			MinFeatures:               []string{},
			CoreParam:                 o.CoreParam,
			AbilityList:               o.AbilityList,
			PromptPlaceholderInfoList: o.PromptPlaceholders,
			PosteditParam:             o.PosteditParam,
		}
		if o.ImageCount >= 2 {
			blend.MinVersion = BlendMinVersion
		}
		abilities.Blend = blend
		abilities.GenOption = &GenOption{ID: uuid.NewString()}
	} else {
		abilities.Generate = &GenerateAbility{
			ID:        uuid.NewString(),
			CoreParam: o.CoreParam,
			GenOption: GenOption{ID: uuid.NewString()},
		}
	}

	doc := Draft{
		Type:            "draft",
		ID:              uuid.NewString(),
		MinVersion:      minVersion,
		MinFeatures:     []string{},
		IsFromTSN:       true,
		Version:         DraftVersion,
		MainComponentID: o.ComponentID,
		ComponentList: []Component{{
			Type:       "image_base_component",
			ID:         o.ComponentID,
			MinVersion: DraftMinVersion,
			AIGCMode:   "workbench",
			Metadata: ComponentMetadata{
				ID:              uuid.NewString(),
				CreatedPlatform: 3,
				CreatedTimeInMS: strconv.FormatInt(time.Now().UnixMilli(), 10),
			},
			GenerateType: o.GenerateType,
			Abilities:    abilities,
		}},
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("draft: encode draft content: %w", err)
	}
	return string(out), nil
}

// BuildSubmitRequest assembles the outer submission envelope.
func BuildSubmitRequest(model string, info region.Info, submitID, draftContent, metricsExtra string) SubmitRequest {
	return SubmitRequest{
		Extend:         Extend{RootModel: model},
		SubmitID:       submitID,
		MetricsExtra:   metricsExtra,
		DraftContent:   draftContent,
		HTTPCommonInfo: HTTPCommonInfo{AID: region.AssistantID(info)},
	}
}

// BuildBlendAbilityList wraps each uploaded image id in a byte_edit ability.
func BuildBlendAbilityList(uploadedImageIDs []string, strength float64) []BlendAbilityItem {
	items := make([]BlendAbilityItem, 0, len(uploadedImageIDs))
	for _, imageID := range uploadedImageIDs {
		items = append(items, BlendAbilityItem{
			ID:           uuid.NewString(),
			Name:         "byte_edit",
			ImageURIList: []string{imageID},
			ImageList: []BlendImage{{
				Type:         "image",
				ID:           uuid.NewString(),
				SourceFrom:   "upload",
				PlatformType: 1,
				ImageURI:     imageID,
				URI:          imageID,
			}},
			Strength: strength,
		})
	}
	return items
}

// BuildPromptPlaceholders creates one placeholder per blend ability.
func BuildPromptPlaceholders(count int) []PromptPlaceholder {
	placeholders := make([]PromptPlaceholder, 0, count)
	for i := 0; i < count; i++ {
		placeholders = append(placeholders, PromptPlaceholder{
			ID:           uuid.NewString(),
			AbilityIndex: i,
		})
	}
	return placeholders
}
