package domain

import (
	"fmt"
	"strings"

	m "github.com/droidmod/gatepatch/internal/model"
)

const provenanceTag = "gatepatch"

// RewriteAccessors rewrites every accessor method of the matched field
// according to the rule. Candidate method names are tried in order
// (bare field name, generated getter, generated boolean accessor); the
// first name with at least one matching span wins and all of its spans
// are replaced. A field with no accessor present yields zero rewrites,
// which is the normal outcome, not a fault.
func RewriteAccessors(text string, field m.FieldDecl, rule m.Rule) (string, int) {
	for _, candidate := range accessorCandidates(field) {
		matched := false
		rewritten := 0

		for i := 0; ; i++ {
			spans := spansNamed(ScanMethods(text, rule.FieldType()), candidate)
			if i >= len(spans) {
				break
			}

			matched = true

			// Re-scan after every replacement: line offsets shift.
			next := replaceBody(text, spans[i], rule)
			if next != text {
				rewritten++
			}

			text = next
		}

		// The first candidate with a span present wins, even when the
		// span is already in its target form.
		if matched {
			return text, rewritten
		}
	}

	return text, 0
}

// accessorCandidates builds the candidate ladder for a field name. A
// field that already carries an accessor-style prefix is tried bare
// first, then under the conventional generated forms.
func accessorCandidates(field m.FieldDecl) []string {
	core := stripAccessorPrefix(field.Name)

	candidates := []string{field.Name, "get" + titleCase(core)}
	if field.Type == m.TypeBoolean {
		candidates = append(candidates, "is"+titleCase(core))
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]

	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}

		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}

	return unique
}

// stripAccessorPrefix removes a leading "is"/"get" when it looks like a
// bean prefix (followed by an upper-case letter).
func stripAccessorPrefix(name string) string {
	for _, prefix := range []string{"is", "get"} {
		rest := strings.TrimPrefix(name, prefix)
		if rest != name && rest != "" && rest[0] >= 'A' && rest[0] <= 'Z' {
			return rest
		}
	}

	return name
}

func titleCase(name string) string {
	if name == "" {
		return name
	}

	return strings.ToUpper(name[:1]) + name[1:]
}

func spansNamed(spans []m.MethodSpan, name string) []m.MethodSpan {
	var matched []m.MethodSpan

	for _, span := range spans {
		if span.Name == name {
			matched = append(matched, span)
		}
	}

	return matched
}

// replaceBody re-emits the span's preamble unchanged, a locals
// directive of at least one register, the rule's constant load and
// return, and the original terminator. No instruction from the original
// body survives: a partial edit could leave unreachable or
// register-mismatched instructions behind, while a full replacement is
// self-consistent by construction.
func replaceBody(text string, span m.MethodSpan, rule m.Rule) string {
	locals := span.Locals
	if locals < 1 {
		locals = 1
	}

	replacement := make([]string, 0, len(span.Preamble)+8)
	replacement = append(replacement, span.Preamble[0])
	replacement = append(replacement, fmt.Sprintf("    .locals %d", locals))
	replacement = append(replacement, span.Preamble[1:]...)
	replacement = append(replacement,
		"",
		fmt.Sprintf("    # %s: %s", provenanceTag, rule.Comment),
		"    "+constantLoad(rule),
		"",
		"    return v0",
		".end method",
	)

	lines := strings.Split(text, "\n")

	out := make([]string, 0, len(lines)+len(replacement))
	out = append(out, lines[:span.StartLine]...)
	out = append(out, replacement...)
	out = append(out, lines[span.EndLine+1:]...)

	return strings.Join(out, "\n")
}

// constantLoad picks the narrowest const encoding that holds the rule's
// target value.
func constantLoad(rule m.Rule) string {
	if rule.Kind == m.RuleReturnBoolean {
		if rule.BoolValue {
			return "const/4 v0, 0x1"
		}

		return "const/4 v0, 0x0"
	}

	value := rule.IntValue

	switch {
	case value >= -8 && value <= 7:
		return fmt.Sprintf("const/4 v0, %s", hexLiteral(value))
	case value >= -32768 && value <= 32767:
		return fmt.Sprintf("const/16 v0, %s", hexLiteral(value))
	default:
		return fmt.Sprintf("const v0, %s", hexLiteral(value))
	}
}

func hexLiteral(value int) string {
	if value < 0 {
		return fmt.Sprintf("-0x%x", -value)
	}

	return fmt.Sprintf("0x%x", value)
}

// FlipConstantReturn performs the narrower behavioral edit: locate a
// bare const/4 load immediately followed by a return of the same
// register inside the span's body and flip that one constant to the
// rule's target. Reserved for low-confidence rules; everything else
// goes through replaceBody.
func FlipConstantReturn(text string, span m.MethodSpan, rule m.Rule) (string, bool) {
	lines := strings.Split(text, "\n")

	bodyStart := span.EndLine - len(span.Body)

	for i := bodyStart; i < span.EndLine; i++ {
		register, value, ok := parseConstLoad(lines[i])
		if !ok {
			continue
		}

		next, ok := nextInstruction(lines, i+1, span.EndLine)
		if !ok || strings.TrimSpace(lines[next]) != "return "+register {
			continue
		}

		target := "0x0"
		if rule.BoolValue {
			target = "0x1"
		}

		if value == target {
			return text, false
		}

		indent := lines[i][:len(lines[i])-len(strings.TrimLeft(lines[i], " \t"))]
		lines[i] = fmt.Sprintf("%sconst/4 %s, %s", indent, register, target)

		return strings.Join(lines, "\n"), true
	}

	return text, false
}

// parseConstLoad matches `const/4 vX, 0x0` and `const/4 vX, 0x1`.
func parseConstLoad(line string) (register, value string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 3 || fields[0] != "const/4" {
		return "", "", false
	}

	register = strings.TrimSuffix(fields[1], ",")
	if !strings.HasPrefix(register, "v") {
		return "", "", false
	}

	value = fields[2]
	if value != "0x0" && value != "0x1" {
		return "", "", false
	}

	return register, value, true
}

// nextInstruction skips blank lines and .line debug directives.
func nextInstruction(lines []string, from, limit int) (int, bool) {
	for i := from; i < limit; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, ".line") {
			continue
		}

		return i, true
	}

	return 0, false
}
