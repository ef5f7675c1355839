// Package serializer renders feature descriptions to text for a character
package serializer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-features/internal/engine/resolver"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// UnavailablePlaceholder replaces an inline value that cannot be computed
const UnavailablePlaceholder = "?"

// BlockSeparator joins rendered blocks
const BlockSeparator = "\n"

// Serializer renders descriptions block by block
type Serializer struct {
	resolver *resolver.Resolver
}

// New creates a serializer. A nil resolver uses resolver.New(nil).
func New(r *resolver.Resolver) *Serializer {
	if r == nil {
		r = resolver.New(nil)
	}
	return &Serializer{resolver: r}
}

// Serialize renders the description. A nil character renders the static form.
func (s *Serializer) Serialize(description features.Description, c *features.CharacterContext) string {
	switch d := description.(type) {
	case features.LegacyText:
		return string(d)
	case features.Blocks:
		rendered := make([]string, len(d))
		for i, block := range d {
			rendered[i] = s.renderBlock(block, c)
		}
		return strings.Join(rendered, BlockSeparator)
	default:
		return ""
	}
}

func (s *Serializer) renderBlock(block features.Block, c *features.CharacterContext) string {
	switch b := block.(type) {
	case features.TextBlock:
		return b.Text
	case features.ComputedInlineBlock:
		return s.renderInline(b, c)
	case features.ComputedReplacementBlock:
		return s.renderReplacement(b, c)
	default:
		return ""
	}
}

type anchoredHint struct {
	hint  features.Hint
	index int
}

func (s *Serializer) renderInline(b features.ComputedInlineBlock, c *features.CharacterContext) string {
	// order hints by where their anchor first appears in the original text
	anchored := make([]anchoredHint, 0, len(b.Hints))
	for _, h := range b.Hints {
		if h.AfterText == "" {
			continue
		}
		idx := strings.Index(b.Text, h.AfterText)
		if idx < 0 {
			continue
		}
		anchored = append(anchored, anchoredHint{hint: h, index: idx})
	}
	sort.SliceStable(anchored, func(i, j int) bool {
		return anchored[i].index < anchored[j].index
	})

	text := b.Text
	cursor := 0
	for _, a := range anchored {
		idx := strings.Index(text[cursor:], a.hint.AfterText)
		if idx < 0 {
			continue
		}
		pos := cursor + idx + len(a.hint.AfterText)

		value := UnavailablePlaceholder
		if v, ok := s.resolver.Resolve(a.hint.Value, c); ok {
			value = FormatValue(v)
		}
		insertion := " " + applyTemplate(a.hint.Format, value)

		text = text[:pos] + insertion + text[pos:]
		cursor = pos + len(insertion)
	}
	return text
}

func (s *Serializer) renderReplacement(b features.ComputedReplacementBlock, c *features.CharacterContext) string {
	v, ok := s.resolver.ResolveAll(b.WhenAvailable, c)
	if !ok {
		return b.FallbackText
	}
	if v == 1 && b.SingularTemplate != "" {
		return b.SingularTemplate
	}
	return applyTemplate(b.ReplacementTemplate, FormatValue(v))
}

func applyTemplate(template, value string) string {
	if template == "" {
		return value
	}
	return strings.ReplaceAll(template, features.ValuePlaceholder, value)
}

// FormatValue renders integral values without a decimal point
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
