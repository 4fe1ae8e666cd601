package sksl

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Punctuation.
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenLeftBracket
	TokenRightBracket
	TokenComma
	TokenDot
	TokenColon
	TokenSemicolon
	TokenQuestion
	TokenAt
	TokenArrow

	// Operators.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenShl
	TokenShr
	TokenAmpAmp
	TokenPipePipe
	TokenCaretCaret
	TokenBang
	TokenAmpersand
	TokenPipe
	TokenCaret
	TokenTilde
	TokenEqual
	TokenEqualEqual
	TokenBangEqual
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual
	TokenPlusEqual
	TokenMinusEqual
	TokenStarEqual
	TokenSlashEqual
	TokenPercentEqual
	TokenShlEqual
	TokenShrEqual
	TokenAmpEqual
	TokenPipeEqual
	TokenCaretEqual
	TokenAmpAmpEqual
	TokenPipePipeEqual
	TokenCaretCaretEqual
	TokenPlusPlus
	TokenMinusMinus

	// Keywords.
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenDo
	TokenSwitch
	TokenCase
	TokenDefault
	TokenBreak
	TokenContinue
	TokenDiscard
	TokenReturn
	TokenIn
	TokenOut
	TokenInOut
	TokenUniform
	TokenConst
	TokenFlat
	TokenVarying
	TokenNoPerspective
	TokenReadOnly
	TokenWriteOnly
	TokenCoherent
	TokenVolatile
	TokenRestrict
	TokenBuffer
	TokenHasSideEffects
	TokenStruct
	TokenLayout
	TokenHighp
	TokenMediump
	TokenLowp
	TokenEnum
	TokenClass
	TokenPLS
	TokenPLSIn
	TokenPLSOut

	// Preprocessor-style directives, passed through as single tokens.
	TokenDirective
	// @section blocks, captured whole.
	TokenSection
)

var tokenNames = map[TokenKind]string{
	TokenEOF:             "end of file",
	TokenError:           "error",
	TokenIdent:           "identifier",
	TokenIntLiteral:      "integer literal",
	TokenFloatLiteral:    "float literal",
	TokenTrue:            "'true'",
	TokenFalse:           "'false'",
	TokenNull:            "'null'",
	TokenLeftParen:       "'('",
	TokenRightParen:      "')'",
	TokenLeftBrace:       "'{'",
	TokenRightBrace:      "'}'",
	TokenLeftBracket:     "'['",
	TokenRightBracket:    "']'",
	TokenComma:           "','",
	TokenDot:             "'.'",
	TokenColon:           "':'",
	TokenSemicolon:       "';'",
	TokenQuestion:        "'?'",
	TokenAt:              "'@'",
	TokenArrow:           "'->'",
	TokenPlus:            "'+'",
	TokenMinus:           "'-'",
	TokenStar:            "'*'",
	TokenSlash:           "'/'",
	TokenPercent:         "'%'",
	TokenShl:             "'<<'",
	TokenShr:             "'>>'",
	TokenAmpAmp:          "'&&'",
	TokenPipePipe:        "'||'",
	TokenCaretCaret:      "'^^'",
	TokenBang:            "'!'",
	TokenAmpersand:       "'&'",
	TokenPipe:            "'|'",
	TokenCaret:           "'^'",
	TokenTilde:           "'~'",
	TokenEqual:           "'='",
	TokenEqualEqual:      "'=='",
	TokenBangEqual:       "'!='",
	TokenLess:            "'<'",
	TokenGreater:         "'>'",
	TokenLessEqual:       "'<='",
	TokenGreaterEqual:    "'>='",
	TokenPlusEqual:       "'+='",
	TokenMinusEqual:      "'-='",
	TokenStarEqual:       "'*='",
	TokenSlashEqual:      "'/='",
	TokenPercentEqual:    "'%='",
	TokenShlEqual:        "'<<='",
	TokenShrEqual:        "'>>='",
	TokenAmpEqual:        "'&='",
	TokenPipeEqual:       "'|='",
	TokenCaretEqual:      "'^='",
	TokenAmpAmpEqual:     "'&&='",
	TokenPipePipeEqual:   "'||='",
	TokenCaretCaretEqual: "'^^='",
	TokenPlusPlus:        "'++'",
	TokenMinusMinus:      "'--'",
	TokenIf:              "'if'",
	TokenElse:            "'else'",
	TokenFor:             "'for'",
	TokenWhile:           "'while'",
	TokenDo:              "'do'",
	TokenSwitch:          "'switch'",
	TokenCase:            "'case'",
	TokenDefault:         "'default'",
	TokenBreak:           "'break'",
	TokenContinue:        "'continue'",
	TokenDiscard:         "'discard'",
	TokenReturn:          "'return'",
	TokenIn:              "'in'",
	TokenOut:             "'out'",
	TokenInOut:           "'inout'",
	TokenUniform:         "'uniform'",
	TokenConst:           "'const'",
	TokenFlat:            "'flat'",
	TokenVarying:         "'varying'",
	TokenNoPerspective:   "'noperspective'",
	TokenReadOnly:        "'readonly'",
	TokenWriteOnly:       "'writeonly'",
	TokenCoherent:        "'coherent'",
	TokenVolatile:        "'volatile'",
	TokenRestrict:        "'restrict'",
	TokenBuffer:          "'buffer'",
	TokenHasSideEffects:  "'sk_has_side_effects'",
	TokenStruct:          "'struct'",
	TokenLayout:          "'layout'",
	TokenHighp:           "'highp'",
	TokenMediump:         "'mediump'",
	TokenLowp:            "'lowp'",
	TokenEnum:            "'enum'",
	TokenClass:           "'class'",
	TokenPLS:             "'__pixel_localEXT'",
	TokenPLSIn:           "'__pixel_local_inEXT'",
	TokenPLSOut:          "'__pixel_local_outEXT'",
	TokenDirective:       "directive",
	TokenSection:         "section",
}

func (k TokenKind) String() string { return tokenNames[k] }

// Token is a single lexed token with its position in the source.
type Token struct {
	Kind   TokenKind
	Lexeme string
	// Offset is the byte offset of the token's first character.
	Offset int
	Line   int
	Column int
}
