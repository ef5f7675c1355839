package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
)

// Client is a typed wrapper over FeatureServiceClient. Errors come back as
// internal errors with their codes and metadata restored.
type Client struct {
	raw    FeatureServiceClient
	rollID string
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{raw: NewFeatureServiceClient(cc)}
}

// WithRoll returns a client that sends rollID with every character request
func (c *Client) WithRoll(rollID string) *Client {
	return &Client{raw: c.raw, rollID: rollID}
}

// RollOutput is a rolled set of scores. RollID is empty unless the server stores rolls.
type RollOutput struct {
	Method string
	Scores features.AbilityScores
	RollID string
}

// DescribeOutput is the rendered description of one feature
type DescribeOutput struct {
	Name        string
	Description string
}

// ExportOutput is the joined PDF text and the names that were not found
type ExportOutput struct {
	Text    string
	Missing []string
}

func request(fields map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to build request")
	}
	return req, nil
}

func (c *Client) withCharacter(
	fields map[string]interface{},
	character *features.CharacterContext,
	hints locator.Hints,
) map[string]interface{} {
	if character != nil {
		fields[FieldCharacter] = EncodeCharacter(character)
	}
	if c.rollID != "" {
		fields[FieldRollID] = c.rollID
	}
	EncodeHints(fields, hints)
	return fields
}

// LookupFeature returns the feature record in catalog document form
func (c *Client) LookupFeature(ctx context.Context, name string, hints locator.Hints) (map[string]interface{}, error) {
	fields := map[string]interface{}{FieldName: name}
	EncodeHints(fields, hints)

	req, err := request(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.raw.LookupFeature(ctx, req)
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}

	feature, _ := resp.AsMap()[FieldFeature].(map[string]interface{})
	return feature, nil
}

// GetFeatureDescription renders one feature remotely
func (c *Client) GetFeatureDescription(
	ctx context.Context,
	name string,
	character *features.CharacterContext,
	hints locator.Hints,
) (*DescribeOutput, error) {
	req, err := request(c.withCharacter(map[string]interface{}{FieldName: name}, character, hints))
	if err != nil {
		return nil, err
	}
	resp, err := c.raw.GetFeatureDescription(ctx, req)
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}

	respFields := resp.GetFields()
	return &DescribeOutput{
		Name:        respFields[FieldName].GetStringValue(),
		Description: respFields[FieldDescription].GetStringValue(),
	}, nil
}

// FormatFeaturesForPDF formats a list of features remotely
func (c *Client) FormatFeaturesForPDF(
	ctx context.Context,
	names []string,
	character *features.CharacterContext,
	hints locator.Hints,
) (*ExportOutput, error) {
	req, err := request(c.withCharacter(map[string]interface{}{FieldNames: stringList(names)}, character, hints))
	if err != nil {
		return nil, err
	}
	resp, err := c.raw.FormatFeaturesForPDF(ctx, req)
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}

	respFields := resp.GetFields()
	out := &ExportOutput{Text: respFields[FieldText].GetStringValue()}
	for _, v := range respFields[FieldMissing].GetListValue().GetValues() {
		out.Missing = append(out.Missing, v.GetStringValue())
	}
	return out, nil
}

// RollAbilityScores rolls a set of scores remotely
func (c *Client) RollAbilityScores(ctx context.Context, method string) (*RollOutput, error) {
	fields := map[string]interface{}{}
	if method != "" {
		fields[FieldMethod] = method
	}

	req, err := request(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.raw.RollAbilityScores(ctx, req)
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}

	respFields := resp.GetFields()
	out := &RollOutput{
		Method: respFields[FieldMethod].GetStringValue(),
		Scores: make(features.AbilityScores),
		RollID: respFields[FieldRollID].GetStringValue(),
	}
	for key, v := range respFields[FieldScores].GetStructValue().GetFields() {
		ability, ok := features.ParseAbility(key)
		if !ok {
			continue
		}
		out.Scores[ability] = int(v.GetNumberValue())
	}
	return out, nil
}
