package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"jimengapi/internal/draft"
)

type draftRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	NegativePrompt   *string  `json:"negative_prompt,omitempty"`
	Seed             *int     `json:"seed,omitempty"`
	Resolution       string   `json:"resolution"`
	Ratio            string   `json:"ratio"`
	SampleStrength   *float64 `json:"sample_strength,omitempty"`
	IntelligentRatio bool     `json:"intelligent_ratio"`
	Region           string   `json:"region"`
	// ImageIDs are vendor upload ids; any entry switches the request into
	// image-to-image (blend) mode.
	ImageIDs []string `json:"image_ids"`
}

type draftResponse struct {
	SubmitID string              `json:"submit_id"`
	Request  draft.SubmitRequest `json:"request"`
}

// ImageDraft validates a generation request, resolves its size and compiles
// the full vendor submission envelope. Posting the envelope to the vendor is
// the transport layer's job; this endpoint only builds it.
func (a *App) ImageDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Model == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "model is required")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	if req.Resolution == "" {
		req.Resolution = "2k"
	}
	if req.Ratio == "" {
		req.Ratio = "1:1"
	}
	strength := 0.5
	if req.SampleStrength != nil {
		strength = *req.SampleStrength
	}
	info := a.requestRegion(r, req.Region)

	reqKey, ok := a.Catalog.ModelReqKey(req.Model, info)
	if !ok {
		reqKey = req.Model
	}
	resolved, err := a.Catalog.ResolveSize(req.Model, req.Resolution, req.Ratio, info)
	if err != nil {
		a.resolveError(w, err)
		return
	}

	imageCount := len(req.ImageIDs)
	mode := draft.ModeTextToImage
	generateType := draft.GenerateTypeGenerate
	scene := draft.SceneBasicGenerate
	isMultiImage := imageCount >= 2
	if imageCount > 0 {
		mode = draft.ModeImageToImage
		generateType = draft.GenerateTypeBlend
	}
	if isMultiImage {
		scene = draft.SceneMultiGenerate
	}

	coreParam := draft.BuildCoreParam(draft.CoreParamOptions{
		UserModel:        req.Model,
		Model:            reqKey,
		Prompt:           req.Prompt,
		ImageCount:       imageCount,
		NegativePrompt:   req.NegativePrompt,
		Seed:             req.Seed,
		SampleStrength:   strength,
		Resolution:       resolved,
		IntelligentRatio: req.IntelligentRatio,
		Mode:             mode,
	})

	var abilityList []draft.BlendAbilityItem
	var placeholders []draft.PromptPlaceholder
	var metricsAbilities []draft.MetricsAbility
	if imageCount > 0 {
		abilityList = draft.BuildBlendAbilityList(req.ImageIDs, strength)
		placeholders = draft.BuildPromptPlaceholders(imageCount)
		for range req.ImageIDs {
			metricsAbilities = append(metricsAbilities, draft.MetricsAbility{
				AbilityName: "byte_edit",
				Strength:    strength,
				Source: &draft.AbilitySource{
					ImageURL: "blob:https://dreamina.capcut.com/" + uuid.NewString(),
				},
			})
		}
	}

	componentID := uuid.NewString()
	submitID := uuid.NewString()

	draftContent, err := draft.BuildDraftContent(draft.DraftOptions{
		ComponentID:        componentID,
		GenerateType:       generateType,
		CoreParam:          coreParam,
		AbilityList:        abilityList,
		PromptPlaceholders: placeholders,
		ImageCount:         imageCount,
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build draft")
		return
	}

	metricsExtra, err := draft.BuildMetricsExtra(draft.MetricsOptions{
		UserModel:      req.Model,
		Region:         info,
		SubmitID:       submitID,
		Scene:          scene,
		ResolutionType: resolved.ResolutionType,
		AbilityList:    metricsAbilities,
		IsMultiImage:   isMultiImage,
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build metrics")
		return
	}

	submit := draft.BuildSubmitRequest(reqKey, info, submitID, draftContent, metricsExtra)
	a.json(w, http.StatusOK, draftResponse{SubmitID: submitID, Request: submit})
}
