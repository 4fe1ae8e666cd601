package sksl

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes SkSL source code.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	estTokens := len(source) / 6
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source.
func (l *Lexer) Tokenize() []Token {
	for !l.isAtEnd() {
		l.start = l.pos
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	})
	return l.tokens
}

func (l *Lexer) scanToken() {
	r := l.advance()

	switch r {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case '.':
		// ".5" is a float literal; a bare dot is member access.
		if isDigit(l.peek()) {
			l.floatFraction()
		} else {
			l.addToken(TokenDot)
		}
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '?':
		l.addToken(TokenQuestion)
	case '@':
		l.addToken(TokenAt)
	case '~':
		l.addToken(TokenTilde)
	case '#':
		// Directives run to end of line.
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}
		l.addToken(TokenDirective)
	case '%':
		if l.match('=') {
			l.addToken(TokenPercentEqual)
		} else {
			l.addToken(TokenPercent)
		}
	case '^':
		if l.match('^') {
			if l.match('=') {
				l.addToken(TokenCaretCaretEqual)
			} else {
				l.addToken(TokenCaretCaret)
			}
		} else if l.match('=') {
			l.addToken(TokenCaretEqual)
		} else {
			l.addToken(TokenCaret)
		}
	case '+':
		if l.match('+') {
			l.addToken(TokenPlusPlus)
		} else if l.match('=') {
			l.addToken(TokenPlusEqual)
		} else {
			l.addToken(TokenPlus)
		}
	case '-':
		if l.match('-') {
			l.addToken(TokenMinusMinus)
		} else if l.match('=') {
			l.addToken(TokenMinusEqual)
		} else if l.match('>') {
			l.addToken(TokenArrow)
		} else {
			l.addToken(TokenMinus)
		}
	case '*':
		if l.match('=') {
			l.addToken(TokenStarEqual)
		} else {
			l.addToken(TokenStar)
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else if l.match('*') {
			l.blockComment()
		} else if l.match('=') {
			l.addToken(TokenSlashEqual)
		} else {
			l.addToken(TokenSlash)
		}
	case '=':
		if l.match('=') {
			l.addToken(TokenEqualEqual)
		} else {
			l.addToken(TokenEqual)
		}
	case '!':
		if l.match('=') {
			l.addToken(TokenBangEqual)
		} else {
			l.addToken(TokenBang)
		}
	case '<':
		if l.match('<') {
			if l.match('=') {
				l.addToken(TokenShlEqual)
			} else {
				l.addToken(TokenShl)
			}
		} else if l.match('=') {
			l.addToken(TokenLessEqual)
		} else {
			l.addToken(TokenLess)
		}
	case '>':
		if l.match('>') {
			if l.match('=') {
				l.addToken(TokenShrEqual)
			} else {
				l.addToken(TokenShr)
			}
		} else if l.match('=') {
			l.addToken(TokenGreaterEqual)
		} else {
			l.addToken(TokenGreater)
		}
	case '&':
		if l.match('&') {
			if l.match('=') {
				l.addToken(TokenAmpAmpEqual)
			} else {
				l.addToken(TokenAmpAmp)
			}
		} else if l.match('=') {
			l.addToken(TokenAmpEqual)
		} else {
			l.addToken(TokenAmpersand)
		}
	case '|':
		if l.match('|') {
			if l.match('=') {
				l.addToken(TokenPipePipeEqual)
			} else {
				l.addToken(TokenPipePipe)
			}
		} else if l.match('=') {
			l.addToken(TokenPipeEqual)
		} else {
			l.addToken(TokenPipe)
		}

	case ' ', '\r', '\t':
		// Ignore whitespace.
	case '\n':
		l.line++
		l.column = 1

	default:
		if isDigit(r) {
			l.number()
		} else if isAlpha(r) || r == '_' || r == '$' {
			l.identifier()
		} else {
			l.addToken(TokenError)
		}
	}
}

func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.peek() == '\n' {
			l.line++
			l.column = 0
		}
		l.advance()
	}
}

func (l *Lexer) number() {
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		l.floatFraction()
		return
	}
	// "1." is a float; "1.x" would be a swizzle on an int, which SkSL
	// does not have, so a trailing dot always means float.
	if l.peek() == '.' && !isAlpha(l.peekNext()) && l.peekNext() != '_' {
		l.advance()
		l.floatFraction()
		return
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		l.exponent()
		l.addToken(TokenFloatLiteral)
		return
	}

	l.addToken(TokenIntLiteral)
}

// floatFraction scans the digits after a decimal point, plus any
// exponent.
func (l *Lexer) floatFraction() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.exponent()
	}
	l.addToken(TokenFloatLiteral)
}

func (l *Lexer) exponent() {
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' || l.peek() == '$' {
		l.advance()
	}
	text := l.source[l.start:l.pos]
	if kind, ok := keywords[text]; ok {
		l.addToken(kind)
		return
	}
	l.addToken(TokenIdent)
}

var keywords = map[string]TokenKind{
	"if":                   TokenIf,
	"else":                 TokenElse,
	"for":                  TokenFor,
	"while":                TokenWhile,
	"do":                   TokenDo,
	"switch":               TokenSwitch,
	"case":                 TokenCase,
	"default":              TokenDefault,
	"break":                TokenBreak,
	"continue":             TokenContinue,
	"discard":              TokenDiscard,
	"return":               TokenReturn,
	"in":                   TokenIn,
	"out":                  TokenOut,
	"inout":                TokenInOut,
	"uniform":              TokenUniform,
	"const":                TokenConst,
	"flat":                 TokenFlat,
	"varying":              TokenVarying,
	"noperspective":        TokenNoPerspective,
	"readonly":             TokenReadOnly,
	"writeonly":            TokenWriteOnly,
	"coherent":             TokenCoherent,
	"volatile":             TokenVolatile,
	"restrict":             TokenRestrict,
	"buffer":               TokenBuffer,
	"sk_has_side_effects":  TokenHasSideEffects,
	"struct":               TokenStruct,
	"layout":               TokenLayout,
	"highp":                TokenHighp,
	"mediump":              TokenMediump,
	"lowp":                 TokenLowp,
	"enum":                 TokenEnum,
	"class":                TokenClass,
	"true":                 TokenTrue,
	"false":                TokenFalse,
	"null":                 TokenNull,
	"__pixel_localEXT":     TokenPLS,
	"__pixel_local_inEXT":  TokenPLSIn,
	"__pixel_local_outEXT": TokenPLSOut,
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Offset: l.start,
		Line:   l.line,
		Column: l.column - (l.pos - l.start),
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
