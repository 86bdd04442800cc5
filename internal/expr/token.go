package expr

import "strings"

// Operator is one of the five binary operators a calculator expression may
// contain.
type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
	Modulo
)

// Display glyphs. Subtract uses the Unicode minus sign so that an ASCII '-'
// can still appear as the sign of a negative numeral.
const (
	GlyphAdd      = "+"
	GlyphSubtract = "−"
	GlyphMultiply = "×"
	GlyphDivide   = "÷"
	GlyphModulo   = "%"
)

// Operators contains every operator glyph recognised by Tokenize.
const Operators = GlyphAdd + GlyphSubtract + GlyphMultiply + GlyphDivide + GlyphModulo

func (o Operator) String() string {
	switch o {
	case Add:
		return GlyphAdd
	case Subtract:
		return GlyphSubtract
	case Multiply:
		return GlyphMultiply
	case Divide:
		return GlyphDivide
	case Modulo:
		return GlyphModulo
	default:
		return "?"
	}
}

// Name is the lowercase operator name used in metric attributes.
func (o Operator) Name() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	case Modulo:
		return "modulo"
	default:
		return "unknown"
	}
}

// ParseOperator returns the operator rendered by glyph.
func ParseOperator(glyph string) (Operator, bool) {
	switch glyph {
	case GlyphAdd:
		return Add, true
	case GlyphSubtract:
		return Subtract, true
	case GlyphMultiply:
		return Multiply, true
	case GlyphDivide:
		return Divide, true
	case GlyphModulo:
		return Modulo, true
	}
	return 0, false
}

// IsOperatorGlyph reports whether r terminates a numeral.
func IsOperatorGlyph(r rune) bool {
	return strings.ContainsRune(Operators, r)
}

// NormalizeOperator maps a keyboard symbol to its display glyph. Display
// glyphs map to themselves.
func NormalizeOperator(symbol string) (string, bool) {
	switch symbol {
	case GlyphAdd:
		return GlyphAdd, true
	case "-", GlyphSubtract:
		return GlyphSubtract, true
	case "*", GlyphMultiply:
		return GlyphMultiply, true
	case "/", GlyphDivide:
		return GlyphDivide, true
	case GlyphModulo:
		return GlyphModulo, true
	}
	return "", false
}

// TokenKind distinguishes the two Token variants.
type TokenKind int

const (
	NumberToken TokenKind = iota
	OperatorToken
)

// Token is either a numeral or an operator. The zero value is an empty
// numeral.
type Token struct {
	Kind TokenKind
	// Text holds the numeral for number tokens and the glyph for operators.
	Text string
	Op   Operator
}

// Number returns a numeral token.
func Number(text string) Token {
	return Token{Kind: NumberToken, Text: text}
}

// Op returns an operator token.
func Op(o Operator) Token {
	return Token{Kind: OperatorToken, Text: o.String(), Op: o}
}

func (t Token) IsOperator() bool {
	return t.Kind == OperatorToken
}

func (t Token) String() string {
	return t.Text
}
