package snippet

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
)

// MaxExpressions bounds the combinations GenerateExpressions returns
const MaxExpressions = 256

// GeneratedExpression is one Cucumber expression matching a step's text
type GeneratedExpression struct {
	Source         string
	ParameterNames []string
	ParameterTypes []*support.ParameterType
}

type slot struct {
	literal string
	types   []*support.ParameterType
}

type match struct {
	start, end int
}

var expressionEscaper = strings.NewReplacer(`(`, `\(`, `{`, `\{`, `/`, `\/`)

// GenerateExpressions returns the Cucumber expressions that match text using
// the given parameter types. When several types match the same span equally
// well, one expression is produced per combination, up to MaxExpressions.
func GenerateExpressions(text string, types []*support.ParameterType) []GeneratedExpression {
	var slots []slot
	pos := 0
	for pos <= len(text) {
		best := match{start: -1}
		var candidates []*support.ParameterType
		for _, pt := range types {
			m, ok := firstMatch(text, pos, pt)
			if !ok {
				continue
			}
			switch {
			case best.start == -1,
				m.start < best.start,
				m.start == best.start && m.end > best.end:
				best = m
				candidates = []*support.ParameterType{pt}
			case m == best:
				candidates = append(candidates, pt)
			}
		}
		if best.start == -1 {
			break
		}
		slots = append(slots, slot{literal: text[pos:best.start], types: candidates})
		pos = best.end
	}
	tail := ""
	if pos < len(text) {
		tail = text[pos:]
	}

	combos := [][]*support.ParameterType{nil}
	for _, s := range slots {
		next := make([][]*support.ParameterType, 0, min(len(combos)*len(s.types), MaxExpressions))
	extend:
		for _, combo := range combos {
			for _, pt := range s.types {
				if len(next) == MaxExpressions {
					break extend
				}
				c := append(append([]*support.ParameterType(nil), combo...), pt)
				next = append(next, c)
			}
		}
		combos = next
	}

	out := make([]GeneratedExpression, 0, len(combos))
	for _, combo := range combos {
		var b strings.Builder
		counts := make(map[string]int)
		expr := GeneratedExpression{ParameterTypes: combo}
		for i, s := range slots {
			pt := combo[i]
			b.WriteString(expressionEscaper.Replace(s.literal))
			b.WriteString("{" + pt.Name + "}")
			expr.ParameterNames = append(expr.ParameterNames, parameterName(pt.Name, counts))
		}
		b.WriteString(expressionEscaper.Replace(tail))
		expr.Source = b.String()
		out = append(out, expr)
	}
	return out
}

// firstMatch finds the earliest non-empty match of pt at or after pos that
// sits on word boundaries.
func firstMatch(text string, pos int, pt *support.ParameterType) (match, bool) {
	best := match{start: -1}
	for _, re := range pt.Regexps() {
		for _, loc := range re.FindAllStringIndex(text[pos:], -1) {
			m := match{start: pos + loc[0], end: pos + loc[1]}
			if m.end == m.start || !onBoundary(text, m) {
				continue
			}
			if best.start == -1 || m.start < best.start || (m.start == best.start && m.end > best.end) {
				best = m
			}
			break
		}
	}
	return best, best.start != -1
}

func onBoundary(text string, m match) bool {
	if m.start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:m.start])
		if isWordRune(r) {
			return false
		}
	}
	if m.end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[m.end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func parameterName(typeName string, counts map[string]int) string {
	name := sanitizeName(typeName)
	counts[name]++
	if n := counts[name]; n > 1 {
		return fmt.Sprintf("%s%d", name, n)
	}
	return name
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		return "arg"
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		return "arg" + name
	}
	return name
}
