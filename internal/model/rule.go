package model

// Confidence tags how trustworthy a rule's match is. Field-driven
// whole-body rewrites are high confidence; in-body constant flips are
// low confidence and disabled unless explicitly opted into.
type Confidence string

const (
	// ConfidenceHigh marks structural, field-driven rewrites.
	ConfidenceHigh Confidence = "high"
	// ConfidenceLow marks behavioral in-place instruction edits.
	ConfidenceLow Confidence = "low"
)

// RuleKind selects the rewrite the engine performs for a matched rule.
type RuleKind string

const (
	// RuleReturnBoolean replaces the whole method body with a boolean
	// constant return.
	RuleReturnBoolean RuleKind = "return-boolean"
	// RuleReturnInteger replaces the whole method body with an integer
	// constant return.
	RuleReturnInteger RuleKind = "return-integer"
	// RuleFlipBoolean flips a bare const/return instruction pair inside
	// the existing body without replacing it.
	RuleFlipBoolean RuleKind = "flip-boolean"
)

// Rule binds a keyword set to a target constant and a provenance
// comment embedded in the replacement body.
type Rule struct {
	Name       string
	Keywords   []string
	Kind       RuleKind
	BoolValue  bool
	IntValue   int
	Comment    string
	Confidence Confidence
}

// FieldType reports the primitive type this rule applies to.
func (r Rule) FieldType() PrimitiveType {
	if r.Kind == RuleReturnInteger {
		return TypeInteger
	}

	return TypeBoolean
}

// Feature is one ordered patching pass: a unit-kind filter plus the
// rules applied to units that survive it.
type Feature struct {
	Name        string
	Description string
	// UnitKeywords gates field-driven rewriting to data-holder classes.
	// Behavioral method rules are not subject to this gate.
	UnitKeywords []string
	FieldRules   []Rule
	MethodRules  []Rule
	Confidence   Confidence
	Default      bool // enabled without explicit opt-in
}
