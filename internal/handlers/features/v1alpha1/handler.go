// Package v1alpha1 handles the feature grpc service interface
package v1alpha1

import (
	"context"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/orchestrators/dice"
	featureorch "github.com/KirkDiggler/rpg-features/internal/orchestrators/features"
)

// HandlerConfig holds dependencies for the feature handler
type HandlerConfig struct {
	FeatureService featureorch.Service
	DiceService    dice.Service

	// DefaultLevel applies to request characters that leave level out.
	// Zero means features.DefaultLevel.
	DefaultLevel int
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.FeatureService == nil {
		vb.RequiredField("FeatureService")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	errors.ValidateRange("DefaultLevel", c.DefaultLevel, 0, features.MaxLevel, vb)
	return vb.Build()
}

// Handler implements FeatureServiceServer
type Handler struct {
	featureService featureorch.Service
	diceService    dice.Service
	defaultLevel   int
}

var _ FeatureServiceServer = (*Handler)(nil)

// NewHandler creates a new feature handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		featureService: cfg.FeatureService,
		diceService:    cfg.DiceService,
		defaultLevel:   cfg.DefaultLevel,
	}, nil
}

func requestFields(req *structpb.Struct) map[string]interface{} {
	if req == nil {
		return map[string]interface{}{}
	}
	return req.AsMap()
}

// characterFor decodes the request character and merges a stored roll under it
func (h *Handler) characterFor(ctx context.Context, fields map[string]interface{}) (*features.CharacterContext, error) {
	vb := errors.NewValidationBuilder()
	rollID := strings.TrimSpace(optionalString(fields, FieldRollID, vb))
	if err := vb.Build(); err != nil {
		return nil, err
	}

	character, err := DecodeCharacter(fields[FieldCharacter], h.defaultLevel)
	if err != nil {
		return nil, err
	}
	if rollID == "" {
		return character, nil
	}

	roll, err := h.diceService.GetRoll(ctx, &dice.GetRollInput{RollID: rollID})
	if err != nil {
		return nil, err
	}
	return mergeRolledScores(character, roll.Scores), nil
}

// LookupFeature takes {name, class?, species?, background?} and returns
// {found: true, feature: <catalog document>} or NotFound
func (h *Handler) LookupFeature(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := requestFields(req)

	vb := errors.NewValidationBuilder()
	name := optionalString(fields, FieldName, vb)
	hints := decodeHints(fields, vb)
	errors.ValidateRequired(FieldName, name, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.featureService.LookupFeature(ctx, &featureorch.LookupFeatureInput{
		Name:  name,
		Hints: hints,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if !output.Found {
		return nil, errors.ToGRPCError(errors.FeatureNotFound(name))
	}

	feature, err := encodeFeature(output.Feature)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp, err := newResponse(map[string]interface{}{
		FieldFound:   true,
		FieldFeature: feature,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}

// GetFeatureDescription takes {name, character?, rollId?, class?, species?, background?}
// and returns {name, description} or NotFound
func (h *Handler) GetFeatureDescription(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := requestFields(req)

	vb := errors.NewValidationBuilder()
	name := optionalString(fields, FieldName, vb)
	hints := decodeHints(fields, vb)
	errors.ValidateRequired(FieldName, name, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	character, err := h.characterFor(ctx, fields)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.featureService.GetFeatureDescription(ctx, &featureorch.GetFeatureDescriptionInput{
		Name:      name,
		Character: character,
		Hints:     hints,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if !output.Found {
		return nil, errors.ToGRPCError(errors.FeatureNotFound(name))
	}

	resp, err := newResponse(map[string]interface{}{
		FieldName:        output.Feature.Name,
		FieldDescription: output.Description,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}

// FormatFeaturesForPDF takes {names, character?, rollId?, class?, species?, background?}
// and returns {text, missing}
func (h *Handler) FormatFeaturesForPDF(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := requestFields(req)

	vb := errors.NewValidationBuilder()
	names := decodeNames(fields, vb)
	hints := decodeHints(fields, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	character, err := h.characterFor(ctx, fields)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.featureService.FormatFeaturesForPDF(ctx, &featureorch.FormatFeaturesForPDFInput{
		Names:     names,
		Character: character,
		Hints:     hints,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp, err := newResponse(map[string]interface{}{
		FieldText:    output.Text,
		FieldMissing: stringList(output.Missing),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}

// RollAbilityScores takes {method?} and returns {method, scores, rolls}, plus
// {rollId, expiresAt} when rolls are stored
func (h *Handler) RollAbilityScores(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := requestFields(req)

	vb := errors.NewValidationBuilder()
	method := strings.TrimSpace(optionalString(fields, FieldMethod, vb))
	if method != "" {
		errors.ValidateEnum(FieldMethod, method, dice.Methods, vb)
	}
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.diceService.RollAbilityScores(ctx, &dice.RollAbilityScoresInput{Method: method})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	scores := make(map[string]interface{}, len(output.Scores))
	for ability, score := range output.Scores {
		scores[string(ability)] = score
	}
	rolls := make([]interface{}, 0, len(output.Rolls))
	for _, r := range output.Rolls {
		rolls = append(rolls, map[string]interface{}{
			FieldAbility: string(r.Ability),
			FieldDice:    intList(r.Dice),
			FieldDropped: intList(r.Dropped),
			FieldTotal:   r.Total,
		})
	}

	respFields := map[string]interface{}{
		FieldMethod: output.Method,
		FieldScores: scores,
		FieldRolls:  rolls,
	}
	if output.RollID != "" {
		respFields[FieldRollID] = output.RollID
		respFields[FieldExpiresAt] = output.ExpiresAt.UTC().Format(time.RFC3339)
	}

	resp, err := newResponse(respFields)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}
