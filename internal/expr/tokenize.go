package expr

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tokenize splits expression into numbers and operators. It never fails:
// malformed numerals are left for Validate to reject.
func Tokenize(expression string) []Token {
	var (
		tokens []Token
		buf    strings.Builder
	)

	for _, r := range expression {
		if !IsOperatorGlyph(r) {
			buf.WriteRune(r)
			continue
		}

		if buf.Len() > 0 {
			tokens = append(tokens, Number(buf.String()))
			buf.Reset()
		}

		op, _ := ParseOperator(string(r))
		tokens = append(tokens, Op(op))
	}

	if buf.Len() > 0 {
		tokens = append(tokens, Number(buf.String()))
	}

	return tokens
}

// Validate reports whether tokens form NUMBER (OPERATOR NUMBER)* with every
// numeral parsing to a finite value.
func Validate(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}

	if tokens[0].IsOperator() || tokens[len(tokens)-1].IsOperator() {
		return false
	}

	for i, tok := range tokens {
		if tok.IsOperator() != (i%2 == 1) {
			return false
		}

		if !tok.IsOperator() {
			if _, err := parseNumeral(tok.Text); err != nil {
				return false
			}
		}
	}

	return true
}

// LastNumeral returns the part of expression after its last operator glyph.
func LastNumeral(expression string) string {
	idx := strings.LastIndexFunc(expression, IsOperatorGlyph)
	if idx < 0 {
		return expression
	}

	_, size := utf8.DecodeRuneInString(expression[idx:])
	return expression[idx+size:]
}

// parseNumeral accepts decimal numerals only; hexadecimal floats are
// rejected even though strconv would take them.
func parseNumeral(text string) (float64, error) {
	if strings.ContainsAny(text, "xX") {
		return 0, strconv.ErrSyntax
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
