package features

// Description is either LegacyText or Blocks
type Description interface {
	isDescription()
}

// LegacyText is the bare-string description form, rendered unchanged
type LegacyText string

// Blocks is an ordered list of description blocks
type Blocks []Block

func (LegacyText) isDescription() {}
func (Blocks) isDescription()     {}

// Block types as written in catalog documents
const (
	BlockTypeText                = "text"
	BlockTypeComputedInline      = "computed-inline"
	BlockTypeComputedReplacement = "computed-replacement"
)

// Block is one of TextBlock, ComputedInlineBlock or ComputedReplacementBlock
type Block interface {
	isBlock()
}

// TextBlock is emitted verbatim
type TextBlock struct {
	Text string
}

// ComputedInlineBlock injects computed values after anchor substrings of Text
type ComputedInlineBlock struct {
	Text  string
	Hints []Hint
}

// Hint places a formatted value right after AfterText
type Hint struct {
	AfterText string
	Value     ComputedValue
	// Format contains a single {value} placeholder
	Format string
}

// ComputedReplacementBlock swaps the whole sentence depending on computed values
type ComputedReplacementBlock struct {
	// WhenAvailable must all resolve; only the first is rendered
	WhenAvailable       []ComputedValue
	FallbackText        string
	ReplacementTemplate string
	// SingularTemplate is used verbatim when the value is exactly 1
	SingularTemplate string
}

func (TextBlock) isBlock()                {}
func (ComputedInlineBlock) isBlock()      {}
func (ComputedReplacementBlock) isBlock() {}

// Value sources as written in catalog documents
const (
	ValueSourceAbilityScore = "abilityScore"
	ValueSourceAbilityMod   = "abilityMod"
	ValueSourceDerived      = "derived"
)

// ComputedValue is one of AbilityScoreValue, AbilityModValue or DerivedValue
type ComputedValue interface {
	isComputedValue()
}

// AbilityScoreValue resolves to the raw score
type AbilityScoreValue struct {
	Ability Ability
}

// AbilityModValue resolves to floor((score-10)/2)
type AbilityModValue struct {
	Ability Ability
}

// DerivedValue resolves an arbitrary formula
type DerivedValue struct {
	Formula string
}

func (AbilityScoreValue) isComputedValue() {}
func (AbilityModValue) isComputedValue()   {}
func (DerivedValue) isComputedValue()      {}

// ValuePlaceholder is substituted in hint formats and replacement templates
const ValuePlaceholder = "{value}"
