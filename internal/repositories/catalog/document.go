package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-features/internal/engine/formula"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/pkg/idgen"
)

// CatalogDocument is the on-disk and in-redis form of a catalog
type CatalogDocument struct {
	Name     string             `yaml:"name" json:"name"`
	Features []*FeatureDocument `yaml:"features" json:"features"`
}

// FeatureDocument is the stored form of a feature record
type FeatureDocument struct {
	ID          string              `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string              `yaml:"name" json:"name"`
	Description DescriptionDocument `yaml:"description,omitempty" json:"description"`
	Options     *OptionsDocument    `yaml:"options,omitempty" json:"options,omitempty"`
}

// OptionsDocument is a pick-N prompt
type OptionsDocument struct {
	Choose int              `yaml:"choose" json:"choose"`
	From   []OptionDocument `yaml:"from" json:"from"`
}

// OptionDocument is one option; features makes it complex
type OptionDocument struct {
	Name     string             `yaml:"name" json:"name"`
	Features []*FeatureDocument `yaml:"features,omitempty" json:"features,omitempty"`
}

// DescriptionDocument holds either a bare string or a list of blocks
type DescriptionDocument struct {
	Text   string
	Blocks []BlockDocument
}

// IsBlocks reports whether the description uses the block form
func (d DescriptionDocument) IsBlocks() bool {
	return d.Blocks != nil
}

// UnmarshalYAML accepts a scalar string or a sequence of blocks
func (d *DescriptionDocument) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		d.Blocks = nil
		return value.Decode(&d.Text)
	case yaml.SequenceNode:
		blocks := make([]BlockDocument, 0, len(value.Content))
		if err := value.Decode(&blocks); err != nil {
			return err
		}
		d.Text = ""
		d.Blocks = blocks
		return nil
	default:
		return fmt.Errorf("line %d: description must be a string or a list of blocks", value.Line)
	}
}

// MarshalYAML writes the string or block form
func (d DescriptionDocument) MarshalYAML() (interface{}, error) {
	if d.IsBlocks() {
		return d.Blocks, nil
	}
	return d.Text, nil
}

// UnmarshalJSON accepts null, a string or an array of blocks
func (d *DescriptionDocument) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		d.Text, d.Blocks = "", nil
		return nil
	case trimmed[0] == '"':
		d.Blocks = nil
		return json.Unmarshal(trimmed, &d.Text)
	case trimmed[0] == '[':
		blocks := make([]BlockDocument, 0)
		if err := json.Unmarshal(trimmed, &blocks); err != nil {
			return err
		}
		d.Text = ""
		d.Blocks = blocks
		return nil
	default:
		return fmt.Errorf("description must be a string or an array of blocks")
	}
}

// MarshalJSON writes the string or block form
func (d DescriptionDocument) MarshalJSON() ([]byte, error) {
	if d.IsBlocks() {
		return json.Marshal(d.Blocks)
	}
	return json.Marshal(d.Text)
}

// BlockDocument is the stored form of every block type
type BlockDocument struct {
	Type                string          `yaml:"type" json:"type"`
	Text                string          `yaml:"text,omitempty" json:"text,omitempty"`
	Hints               []HintDocument  `yaml:"hints,omitempty" json:"hints,omitempty"`
	WhenAvailable       []ValueDocument `yaml:"whenAvailable,omitempty" json:"whenAvailable,omitempty"`
	FallbackText        string          `yaml:"fallbackText,omitempty" json:"fallbackText,omitempty"`
	ReplacementTemplate string          `yaml:"replacementTemplate,omitempty" json:"replacementTemplate,omitempty"`
	SingularTemplate    string          `yaml:"singularTemplate,omitempty" json:"singularTemplate,omitempty"`
}

// HintDocument places a value after an anchor
type HintDocument struct {
	AfterText string        `yaml:"afterText" json:"afterText"`
	Format    string        `yaml:"format,omitempty" json:"format,omitempty"`
	Value     ValueDocument `yaml:"value" json:"value"`
}

// ValueDocument is a computed value reference
type ValueDocument struct {
	Source  string `yaml:"source" json:"source"`
	Ability string `yaml:"ability,omitempty" json:"ability,omitempty"`
	Formula string `yaml:"formula,omitempty" json:"formula,omitempty"`
}

// ToCatalog validates the document and converts it. Features without an id get
// one from gen, derived from the kind, catalog name and feature path.
func (d *CatalogDocument) ToCatalog(kind features.CatalogKind, gen idgen.Generator) (*features.Catalog, error) {
	if d == nil {
		return nil, errors.InvalidArgument("catalog document is required")
	}
	if gen == nil {
		gen = idgen.NewNameBased(idPrefix)
	}

	vb := errors.NewValidationBuilder()
	if !kind.Valid() {
		vb.Fieldf("kind", "unknown catalog kind %q", kind)
	}
	errors.ValidateRequired("name", d.Name, vb)

	c := &converter{
		vb:   vb,
		gen:  gen,
		seen: make(map[string]string),
		path: []string{string(kind), d.Name},
	}

	catalog := &features.Catalog{
		Kind:     kind,
		Name:     d.Name,
		Features: c.features("features", d.Features),
	}

	if err := vb.Build(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s catalog %q", kind, d.Name)
	}
	return catalog, nil
}

const idPrefix = "feat"

type converter struct {
	vb   *errors.ValidationBuilder
	gen  idgen.Generator
	seen map[string]string
	path []string
}

func (c *converter) features(field string, docs []*FeatureDocument) []*features.FeatureRecord {
	records := make([]*features.FeatureRecord, 0, len(docs))
	for i, doc := range docs {
		f := fmt.Sprintf("%s[%d]", field, i)
		if doc == nil {
			c.vb.Field(f, "is empty")
			continue
		}
		records = append(records, c.feature(f, doc))
	}
	return records
}

func (c *converter) feature(field string, doc *FeatureDocument) *features.FeatureRecord {
	errors.ValidateRequired(field+".name", doc.Name, c.vb)

	if key := features.NormalizeName(doc.Name); key != "" {
		if first, dup := c.seen[key]; dup {
			c.vb.Fieldf(field+".name", "duplicate feature name %q (first at %s)", doc.Name, first)
		} else {
			c.seen[key] = field
		}
	}

	c.path = append(c.path, doc.Name)
	defer func() { c.path = c.path[:len(c.path)-1] }()

	record := &features.FeatureRecord{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: c.description(field+".description", doc.Description),
	}
	if record.ID == "" {
		record.ID = c.gen.Generate(c.path...)
	}

	if doc.Options != nil {
		record.Options = c.options(field+".options", doc.Options)
	}
	return record
}

func (c *converter) options(field string, doc *OptionsDocument) *features.FeatureOptions {
	if doc.Choose < 0 {
		c.vb.Field(field+".choose", "must not be negative")
	}

	opts := &features.FeatureOptions{
		Choose:  doc.Choose,
		Options: make([]features.FeatureOption, 0, len(doc.From)),
	}
	for i, optDoc := range doc.From {
		f := fmt.Sprintf("%s.from[%d]", field, i)
		errors.ValidateRequired(f+".name", optDoc.Name, c.vb)

		c.path = append(c.path, optDoc.Name)
		opt := features.FeatureOption{Name: optDoc.Name}
		if len(optDoc.Features) > 0 {
			opt.Features = c.features(f+".features", optDoc.Features)
		}
		c.path = c.path[:len(c.path)-1]

		opts.Options = append(opts.Options, opt)
	}
	return opts
}

func (c *converter) description(field string, doc DescriptionDocument) features.Description {
	if !doc.IsBlocks() {
		return features.LegacyText(doc.Text)
	}

	blocks := make(features.Blocks, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		f := fmt.Sprintf("%s[%d]", field, i)
		switch b.Type {
		case features.BlockTypeText:
			blocks = append(blocks, features.TextBlock{Text: b.Text})
		case features.BlockTypeComputedInline:
			hints := make([]features.Hint, 0, len(b.Hints))
			for j, h := range b.Hints {
				hf := fmt.Sprintf("%s.hints[%d]", f, j)
				errors.ValidateRequired(hf+".afterText", h.AfterText, c.vb)
				hints = append(hints, features.Hint{
					AfterText: h.AfterText,
					Value:     c.value(hf+".value", h.Value),
					Format:    h.Format,
				})
			}
			blocks = append(blocks, features.ComputedInlineBlock{Text: b.Text, Hints: hints})
		case features.BlockTypeComputedReplacement:
			values := make([]features.ComputedValue, 0, len(b.WhenAvailable))
			for j, v := range b.WhenAvailable {
				values = append(values, c.value(fmt.Sprintf("%s.whenAvailable[%d]", f, j), v))
			}
			blocks = append(blocks, features.ComputedReplacementBlock{
				WhenAvailable:       values,
				FallbackText:        b.FallbackText,
				ReplacementTemplate: b.ReplacementTemplate,
				SingularTemplate:    b.SingularTemplate,
			})
		default:
			c.vb.Fieldf(f+".type", "unknown block type %q", b.Type)
		}
	}
	return blocks
}

func (c *converter) value(field string, doc ValueDocument) features.ComputedValue {
	switch doc.Source {
	case features.ValueSourceAbilityScore, features.ValueSourceAbilityMod:
		ability, ok := features.ParseAbility(doc.Ability)
		if !ok {
			c.vb.Fieldf(field+".ability", "unknown ability %q", doc.Ability)
			return nil
		}
		if doc.Source == features.ValueSourceAbilityScore {
			return features.AbilityScoreValue{Ability: ability}
		}
		return features.AbilityModValue{Ability: ability}
	case features.ValueSourceDerived:
		// malformed formulas are kept; they degrade to fallback text at render time
		errors.ValidateRequired(field+".formula", doc.Formula, c.vb)
		if doc.Formula != "" {
			if err := formula.Validate(doc.Formula); err != nil {
				slog.Warn("malformed formula in catalog",
					"catalog", strings.Join(c.path[:2], "/"),
					"field", field,
					"formula", doc.Formula,
					"error", err,
				)
			}
		}
		return features.DerivedValue{Formula: doc.Formula}
	default:
		c.vb.Fieldf(field+".source", "unknown value source %q", doc.Source)
		return nil
	}
}

// NewCatalogDocument converts a catalog back to its stored form
func NewCatalogDocument(catalog *features.Catalog) *CatalogDocument {
	if catalog == nil {
		return nil
	}
	return &CatalogDocument{
		Name:     catalog.Name,
		Features: featureDocuments(catalog.Features),
	}
}

func featureDocuments(records []*features.FeatureRecord) []*FeatureDocument {
	docs := make([]*FeatureDocument, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		docs = append(docs, NewFeatureDocument(r))
	}
	return docs
}

// NewFeatureDocument converts one record, with its nested options, to stored form
func NewFeatureDocument(r *features.FeatureRecord) *FeatureDocument {
	if r == nil {
		return nil
	}
	doc := &FeatureDocument{
		ID:          r.ID,
		Name:        r.Name,
		Description: descriptionDocument(r.Description),
	}
	if r.Options != nil {
		doc.Options = &OptionsDocument{
			Choose: r.Options.Choose,
			From:   make([]OptionDocument, 0, len(r.Options.Options)),
		}
		for _, opt := range r.Options.Options {
			optDoc := OptionDocument{Name: opt.Name}
			if opt.IsComplex() {
				optDoc.Features = featureDocuments(opt.Features)
			}
			doc.Options.From = append(doc.Options.From, optDoc)
		}
	}
	return doc
}

func descriptionDocument(desc features.Description) DescriptionDocument {
	switch d := desc.(type) {
	case features.LegacyText:
		return DescriptionDocument{Text: string(d)}
	case features.Blocks:
		blocks := make([]BlockDocument, 0, len(d))
		for _, b := range d {
			switch block := b.(type) {
			case features.TextBlock:
				blocks = append(blocks, BlockDocument{Type: features.BlockTypeText, Text: block.Text})
			case features.ComputedInlineBlock:
				hints := make([]HintDocument, 0, len(block.Hints))
				for _, h := range block.Hints {
					hints = append(hints, HintDocument{
						AfterText: h.AfterText,
						Format:    h.Format,
						Value:     valueDocument(h.Value),
					})
				}
				blocks = append(blocks, BlockDocument{
					Type:  features.BlockTypeComputedInline,
					Text:  block.Text,
					Hints: hints,
				})
			case features.ComputedReplacementBlock:
				values := make([]ValueDocument, 0, len(block.WhenAvailable))
				for _, v := range block.WhenAvailable {
					values = append(values, valueDocument(v))
				}
				blocks = append(blocks, BlockDocument{
					Type:                features.BlockTypeComputedReplacement,
					WhenAvailable:       values,
					FallbackText:        block.FallbackText,
					ReplacementTemplate: block.ReplacementTemplate,
					SingularTemplate:    block.SingularTemplate,
				})
			}
		}
		return DescriptionDocument{Blocks: blocks}
	default:
		return DescriptionDocument{}
	}
}

func valueDocument(v features.ComputedValue) ValueDocument {
	switch value := v.(type) {
	case features.AbilityScoreValue:
		return ValueDocument{Source: features.ValueSourceAbilityScore, Ability: string(value.Ability)}
	case features.AbilityModValue:
		return ValueDocument{Source: features.ValueSourceAbilityMod, Ability: string(value.Ability)}
	case features.DerivedValue:
		return ValueDocument{Source: features.ValueSourceDerived, Formula: value.Formula}
	default:
		return ValueDocument{}
	}
}
