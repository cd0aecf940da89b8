package domain

import (
	"path/filepath"
	"strings"

	m "github.com/droidmod/gatepatch/internal/model"
)

// behavioralVerbs are the verb half of the verb+noun shape used to
// match gate methods directly. The noun half comes from each rule's
// keyword set.
var behavioralVerbs = []string{"is", "has", "check", "detect", "require", "need"}

// UnitEligible reports whether a class unit may receive field-driven
// rewrites. Only data-holder-shaped names pass; flipping a gate inside
// service or controller logic is far more likely to destabilize
// unrelated control flow than flipping it in a plain data class.
func UnitEligible(unitPath m.Path, keywords []string) bool {
	name := strings.ToLower(unitBaseName(unitPath))

	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

// unitBaseName strips the directory and .smali suffix, plus any inner
// class suffix ("UserModel$Builder" matches like "UserModel").
func unitBaseName(unitPath m.Path) string {
	base := strings.TrimSuffix(filepath.Base(string(unitPath)), ".smali")

	if idx := strings.IndexByte(base, '$'); idx >= 0 {
		base = base[:idx]
	}

	return base
}

// MatchFieldRule tests a field's lower-cased name against each rule's
// keyword set in order; the first match wins.
func MatchFieldRule(field m.FieldDecl, rules []m.Rule) (m.Rule, bool) {
	name := strings.ToLower(field.Name)

	for _, rule := range rules {
		if rule.FieldType() != field.Type {
			continue
		}

		for _, keyword := range rule.Keywords {
			if strings.Contains(name, keyword) {
				return rule, true
			}
		}
	}

	return m.Rule{}, false
}

// MatchMethodRule matches a method name against the behavioral
// verb+noun shape: one of the conventional gate verbs combined with a
// domain noun from the rule's keyword set.
func MatchMethodRule(methodName string, rules []m.Rule) (m.Rule, bool) {
	name := strings.ToLower(methodName)

	hasVerb := false

	for _, verb := range behavioralVerbs {
		if strings.Contains(name, verb) {
			hasVerb = true

			break
		}
	}

	if !hasVerb {
		return m.Rule{}, false
	}

	for _, rule := range rules {
		for _, noun := range rule.Keywords {
			if strings.Contains(name, noun) {
				return rule, true
			}
		}
	}

	return m.Rule{}, false
}
