// Package domain contains the core scope, classification and rewrite
// logic for smali gate patching.
package domain

import (
	"strconv"
	"strings"

	m "github.com/droidmod/gatepatch/internal/model"
)

// Smali line-grammar tokens. The scanner matches these explicitly
// instead of pattern matching so unusual spacing cannot silently
// mismatch a method boundary.
const (
	tokField         = ".field"
	tokMethod        = ".method"
	tokEndMethod     = ".end method"
	tokLocals        = ".locals"
	tokRegisters     = ".registers"
	tokParam         = ".param"
	tokAnnotation    = ".annotation"
	tokEndAnnotation = ".end annotation"
)

// ScanFields locates every .field declaration of the given primitive
// type in a unit's text, in declaration order. Malformed lines are not
// faults; they simply do not match.
func ScanFields(text string, typ m.PrimitiveType) []m.FieldDecl {
	var fields []m.FieldDecl

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, tokField+" ") {
			continue
		}

		decl, ok := parseFieldLine(trimmed, i)
		if !ok || decl.Type != typ {
			continue
		}

		fields = append(fields, decl)
	}

	return fields
}

// parseFieldLine parses `.field <modifiers...> name:T [= value]`.
func parseFieldLine(line string, lineNo int) (m.FieldDecl, bool) {
	tokens := strings.Fields(strings.TrimPrefix(line, tokField+" "))

	for i, tok := range tokens {
		name, typ, ok := strings.Cut(tok, ":")
		if !ok || name == "" {
			continue
		}

		// A value assignment may follow the type descriptor.
		if eq := strings.IndexByte(typ, ' '); eq >= 0 {
			typ = typ[:eq]
		}

		return m.FieldDecl{
			Name:      name,
			Type:      m.PrimitiveType(typ),
			Modifiers: tokens[:i],
			Line:      lineNo,
		}, true
	}

	return m.FieldDecl{}, false
}

// ScanMethods locates every zero-argument method with the given return
// type, returning the full span from the .method marker to the matching
// .end method marker. Methods do not nest, so first end marker wins.
// Unterminated methods are dropped rather than reported as errors.
func ScanMethods(text string, ret m.PrimitiveType) []m.MethodSpan {
	lines := strings.Split(text, "\n")

	var spans []m.MethodSpan

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, tokMethod+" ") {
			continue
		}

		name, params, retType, ok := parseMethodSignature(trimmed)
		if !ok || params != "" || retType != string(ret) {
			continue
		}

		end := findEndMethod(lines, i+1)
		if end < 0 {
			break // unterminated method, nothing after it can match
		}

		span := buildSpan(lines, i, end)
		span.Name = name
		span.ReturnType = ret
		spans = append(spans, span)

		i = end
	}

	return spans
}

// parseMethodSignature parses `.method <flags...> name(params)ret`.
func parseMethodSignature(line string) (name, params, ret string, ok bool) {
	tokens := strings.Fields(strings.TrimPrefix(line, tokMethod+" "))
	if len(tokens) == 0 {
		return "", "", "", false
	}

	proto := tokens[len(tokens)-1]

	open := strings.IndexByte(proto, '(')
	close := strings.IndexByte(proto, ')')

	if open <= 0 || close < open {
		return "", "", "", false
	}

	return proto[:open], proto[open+1 : close], proto[close+1:], true
}

func findEndMethod(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == tokEndMethod {
			return i
		}
	}

	return -1
}

// buildSpan extracts the preamble (signature plus annotation/parameter
// directive lines, locals stripped), the declared locals count and the
// body from a matched method region.
func buildSpan(lines []string, start, end int) m.MethodSpan {
	span := m.MethodSpan{
		StartLine: start,
		EndLine:   end,
		Preamble:  []string{lines[start]},
	}

	i := start + 1

prologue:
	for i < end {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "":
			i++
		case strings.HasPrefix(trimmed, tokLocals+" "), strings.HasPrefix(trimmed, tokRegisters+" "):
			span.Locals = parseLocalsCount(trimmed)
			i++
		case strings.HasPrefix(trimmed, tokParam):
			span.Preamble = append(span.Preamble, lines[i])
			i++
		case strings.HasPrefix(trimmed, tokAnnotation):
			blockEnd := findEndAnnotation(lines, i, end)
			span.Preamble = append(span.Preamble, lines[i:blockEnd+1]...)
			i = blockEnd + 1
		default:
			break prologue
		}
	}

	span.Body = lines[i:end]

	return span
}

func parseLocalsCount(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// findEndAnnotation returns the index of the .end annotation line
// closing the block that opens at start. Annotation blocks may nest via
// embedded annotations, so opens and closes are counted.
func findEndAnnotation(lines []string, start, limit int) int {
	depth := 0

	for i := start; i < limit; i++ {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(trimmed, tokAnnotation):
			depth++
		case trimmed == tokEndAnnotation:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return start // malformed block, treat the opening line as the whole block
}
