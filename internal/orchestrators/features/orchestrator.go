// Package features implements the feature orchestrator: locate a feature record,
// render its description against a character and sanitize it for output.
package features

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-features/internal/engine/formula"
	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/engine/resolver"
	"github.com/KirkDiggler/rpg-features/internal/engine/sanitize"
	"github.com/KirkDiggler/rpg-features/internal/engine/serializer"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
)

const (
	// EventFeatureDescribed is published after a description is rendered
	EventFeatureDescribed = "feature.described"

	// EventContextDescription holds the rendered text on published events
	EventContextDescription = "description"

	// PDFEntrySeparator joins entries in FormatFeaturesForPDF
	PDFEntrySeparator = "\n\n"

	// MissingFeatureBullet prefixes names that could not be located
	MissingFeatureBullet = "• "
)

// Service defines the interface for feature operations. Errors are returned only
// for invalid input; lookup misses are reported through Found.
type Service interface {
	LookupFeature(ctx context.Context, input *LookupFeatureInput) (*LookupFeatureOutput, error)
	GetFeatureDescription(ctx context.Context, input *GetFeatureDescriptionInput) (*GetFeatureDescriptionOutput, error)
	FormatFeatureForPDF(ctx context.Context, input *FormatFeatureForPDFInput) (*FormatFeatureForPDFOutput, error)
	FormatFeaturesForPDF(ctx context.Context, input *FormatFeaturesForPDFInput) (*FormatFeaturesForPDFOutput, error)
}

// Config holds the dependencies for the feature orchestrator
type Config struct {
	Registry *locator.Registry
	// Evaluator defaults to a fresh formula.Evaluator
	Evaluator resolver.Evaluator
	// EventBus is optional
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.Registry == nil {
		vb.RequiredField("Registry")
	}

	return vb.Build()
}

type orchestrator struct {
	locator    *locator.Locator
	serializer *serializer.Serializer
	eventBus   events.EventBus
}

// NewOrchestrator creates a new feature orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = formula.New()
	}

	return &orchestrator{
		locator:    locator.New(cfg.Registry),
		serializer: serializer.New(resolver.New(evaluator)),
		eventBus:   cfg.EventBus,
	}, nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidArgument("feature name is required")
	}
	return nil
}

// LookupFeature finds a record by name, searching hinted catalogs first
func (o *orchestrator) LookupFeature(_ context.Context, input *LookupFeatureInput) (*LookupFeatureOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := requireName(input.Name); err != nil {
		return nil, err
	}

	record, found := o.locator.Find(input.Name, input.Hints)
	return &LookupFeatureOutput{Feature: record, Found: found}, nil
}

// GetFeatureDescription locates, serializes and sanitizes a feature description
func (o *orchestrator) GetFeatureDescription(
	ctx context.Context,
	input *GetFeatureDescriptionInput,
) (*GetFeatureDescriptionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := requireName(input.Name); err != nil {
		return nil, err
	}

	record, found := o.locator.Find(input.Name, input.Hints)
	if !found {
		slog.DebugContext(ctx, "feature not found",
			"name", input.Name,
			"class", input.Hints.Class,
			"species", input.Hints.Species,
			"background", input.Hints.Background)
		return &GetFeatureDescriptionOutput{}, nil
	}

	description := o.describe(record, input.Character)
	o.publishDescribed(ctx, record, description)

	return &GetFeatureDescriptionOutput{
		Feature:     record,
		Description: description,
		Found:       true,
	}, nil
}

// FormatFeatureForPDF renders one entry as a bold name line followed by the
// description, or a bullet with the requested name when it cannot be located
func (o *orchestrator) FormatFeatureForPDF(
	ctx context.Context,
	input *FormatFeatureForPDFInput,
) (*FormatFeatureForPDFOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := requireName(input.Name); err != nil {
		return nil, err
	}

	text, found := o.formatEntry(ctx, input.Name, input.Character, input.Hints)
	return &FormatFeatureForPDFOutput{Text: text, Found: found}, nil
}

// FormatFeaturesForPDF formats each name and joins the entries with a blank line
func (o *orchestrator) FormatFeaturesForPDF(
	ctx context.Context,
	input *FormatFeaturesForPDFInput,
) (*FormatFeaturesForPDFOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	for i, name := range input.Names {
		if strings.TrimSpace(name) == "" {
			vb.Fieldf("names", "entry %d is empty", i)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(input.Names))
	var missing []string
	for _, name := range input.Names {
		text, found := o.formatEntry(ctx, name, input.Character, input.Hints)
		if !found {
			missing = append(missing, name)
		}
		entries = append(entries, text)
	}

	return &FormatFeaturesForPDFOutput{
		Text:    strings.Join(entries, PDFEntrySeparator),
		Missing: missing,
	}, nil
}

func (o *orchestrator) formatEntry(
	ctx context.Context,
	name string,
	c *features.CharacterContext,
	hints locator.Hints,
) (string, bool) {
	record, found := o.locator.Find(name, hints)
	if !found {
		return MissingFeatureBullet + singleLine(name), false
	}

	description := o.describe(record, c)
	o.publishDescribed(ctx, record, description)

	heading := sanitize.BoldPrefix + singleLine(record.Name) + sanitize.MarkerSuffix
	if description == "" {
		return heading, true
	}
	return heading + "\n" + description, true
}

func (o *orchestrator) describe(record *features.FeatureRecord, c *features.CharacterContext) string {
	return sanitize.Sanitize(o.serializer.Serialize(record.Description, c))
}

func (o *orchestrator) publishDescribed(ctx context.Context, record *features.FeatureRecord, description string) {
	if o.eventBus == nil {
		return
	}

	event := events.NewGameEvent(EventFeatureDescribed, record.AsEntity(), nil)
	event.Context().Set(EventContextDescription, description)

	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish feature event",
			"feature_id", record.ID,
			"error", err.Error())
	}
}

// singleLine sanitizes a feature name for a heading or bullet and folds any
// line breaks it kept into spaces
func singleLine(name string) string {
	return strings.Join(strings.Fields(sanitize.Sanitize(name)), " ")
}
