package domain

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/droidmod/gatepatch/internal/adapter"
	m "github.com/droidmod/gatepatch/internal/model"
)

const smaliFileExt = ".smali"

// Driver walks every class unit under every class-tree root and applies
// one feature at a time. It is the only caller of the rewrite engine
// and the sole owner of the mutation ledger.
type Driver struct {
	fs       adapter.SourceFS
	boundary ScopeBoundary
	mode     ScopeMode

	// OnPatch, when set, is notified for every unit whose text changed.
	OnPatch func(feature string, unit m.Path)
}

// NewDriver constructs a Driver bound to a resolved scope boundary.
func NewDriver(sfs adapter.SourceFS, boundary ScopeBoundary, mode ScopeMode) *Driver {
	return &Driver{fs: sfs, boundary: boundary, mode: mode}
}

// ApplyFeature runs one feature over all roots and returns its ledger
// delta. Unreadable units are skipped silently; an unexpected fault
// aborts only this feature and surfaces as a single failed increment,
// never as an error to the caller.
func (d *Driver) ApplyFeature(feature m.Feature, roots []m.Path) (delta m.Ledger) {
	defer func() {
		if r := recover(); r != nil {
			delta = m.Ledger{Failed: 1}
		}
	}()

	changed := 0

	for _, root := range roots {
		// A missing or partially corrupt root must never abort the pass.
		_ = d.fs.Walk(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() || !strings.HasSuffix(path, smaliFileExt) {
				return nil
			}

			if !d.boundary.Eligible(symbolPath(root, path), d.mode) {
				return nil
			}

			raw, readErr := d.fs.ReadFile(m.Path(path))
			if readErr != nil {
				return nil
			}

			unit := m.ClassUnit{Path: m.Path(path), Text: string(raw)}

			next := d.applyToUnit(feature, unit)
			if next == unit.Text {
				return nil
			}

			if writeErr := d.fs.WriteFile(unit.Path, []byte(next), 0o644); writeErr != nil {
				return nil
			}

			changed++

			if d.OnPatch != nil {
				d.OnPatch(feature.Name, unit.Path)
			}

			return nil
		})
	}

	if changed == 0 {
		// Pattern legitimately absent, likely enforced elsewhere.
		return m.Ledger{Skipped: 1}
	}

	return m.Ledger{Applied: changed}
}

// symbolPath converts a unit path into the symbol path the scope
// boundary evaluates: the class path relative to its root.
func symbolPath(root m.Path, path string) string {
	rel, err := filepath.Rel(string(root), path)
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}

// applyToUnit applies a feature's field-driven and behavioral rules to
// one unit's text and returns the (possibly unchanged) result.
func (d *Driver) applyToUnit(feature m.Feature, unit m.ClassUnit) string {
	text := unit.Text

	if len(feature.FieldRules) > 0 && UnitEligible(unit.Path, feature.UnitKeywords) {
		for _, typ := range []m.PrimitiveType{m.TypeBoolean, m.TypeInteger} {
			for _, field := range ScanFields(text, typ) {
				rule, ok := MatchFieldRule(field, feature.FieldRules)
				if !ok {
					continue
				}

				text, _ = RewriteAccessors(text, field, rule)
			}
		}
	}

	if len(feature.MethodRules) > 0 {
		text = d.applyBehavioral(feature, text)
	}

	return text
}

// applyBehavioral runs the in-place constant flips over every
// zero-argument boolean method whose name matches a behavioral rule.
func (d *Driver) applyBehavioral(feature m.Feature, text string) string {
	for i := 0; ; i++ {
		spans := ScanMethods(text, m.TypeBoolean)
		if i >= len(spans) {
			return text
		}

		rule, ok := MatchMethodRule(spans[i].Name, feature.MethodRules)
		if !ok {
			continue
		}

		text, _ = FlipConstantReturn(text, spans[i], rule)
	}
}
