package sksl

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"+ - * /", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenEOF}},
		{"( ) { }", []TokenKind{TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace, TokenEOF}},
		{"[ ] , .", []TokenKind{TokenLeftBracket, TokenRightBracket, TokenComma, TokenDot, TokenEOF}},
		{": ; ? @", []TokenKind{TokenColon, TokenSemicolon, TokenQuestion, TokenAt, TokenEOF}},
	}

	for _, tt := range tests {
		tokens := NewLexer(tt.input).Tokenize()

		if len(tokens) != len(tt.expected) {
			t.Errorf("%q: expected %d tokens, got %d", tt.input, len(tt.expected), len(tokens))
			continue
		}
		for i, tok := range tokens {
			if tok.Kind != tt.expected[i] {
				t.Errorf("%q token %d: expected %v, got %v", tt.input, i, tt.expected[i], tok.Kind)
			}
		}
	}
}

func TestLexerOperators(t *testing.T) {
	input := "== != <= >= && || ^^ << >> ++ -- <<= >>= &&= ||= ^^="
	expected := []TokenKind{
		TokenEqualEqual, TokenBangEqual, TokenLessEqual, TokenGreaterEqual,
		TokenAmpAmp, TokenPipePipe, TokenCaretCaret, TokenShl, TokenShr,
		TokenPlusPlus, TokenMinusMinus,
		TokenShlEqual, TokenShrEqual, TokenAmpAmpEqual, TokenPipePipeEqual, TokenCaretCaretEqual,
		TokenEOF,
	}

	tokens := NewLexer(input).Tokenize()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := "if else for while do switch case default break continue discard return"
	expected := []TokenKind{
		TokenIf, TokenElse, TokenFor, TokenWhile, TokenDo, TokenSwitch,
		TokenCase, TokenDefault, TokenBreak, TokenContinue, TokenDiscard,
		TokenReturn, TokenEOF,
	}

	tokens := NewLexer(input).Tokenize()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"42", TokenIntLiteral},
		{"0x1f", TokenIntLiteral},
		{"1.0", TokenFloatLiteral},
		{"0.5", TokenFloatLiteral},
		{".5", TokenFloatLiteral},
		{"1.", TokenFloatLiteral},
		{"2.5e3", TokenFloatLiteral},
	}

	for _, tt := range tests {
		tokens := NewLexer(tt.input).Tokenize()
		if len(tokens) != 2 {
			t.Errorf("%q: expected a single token before EOF, got %d", tt.input, len(tokens)-1)
			continue
		}
		if tokens[0].Kind != tt.kind {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.kind, tokens[0].Kind)
		}
		if tokens[0].Lexeme != tt.input {
			t.Errorf("%q: lexeme mismatch, got %q", tt.input, tokens[0].Lexeme)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	input := "sk_FragColor $genType _tmpSwizzle0 half4"
	tokens := NewLexer(input).Tokenize()
	expected := []string{"sk_FragColor", "$genType", "_tmpSwizzle0", "half4"}

	if len(tokens) != len(expected)+1 {
		t.Fatalf("expected %d tokens, got %d", len(expected)+1, len(tokens))
	}
	for i, want := range expected {
		if tokens[i].Kind != TokenIdent {
			t.Errorf("token %d: expected identifier, got %v", i, tokens[i].Kind)
		}
		if tokens[i].Lexeme != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i].Lexeme)
		}
	}
}

func TestLexerComments(t *testing.T) {
	input := "a // line comment\nb /* block\ncomment */ c"
	tokens := NewLexer(input).Tokenize()
	expected := []string{"a", "b", "c"}

	if len(tokens) != len(expected)+1 {
		t.Fatalf("expected %d tokens, got %d", len(expected)+1, len(tokens))
	}
	for i, want := range expected {
		if tokens[i].Lexeme != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i].Lexeme)
		}
	}
}

func TestLexerDirective(t *testing.T) {
	input := "#extension GL_OES_EGL_image_external : require\nvoid"
	tokens := NewLexer(input).Tokenize()

	if tokens[0].Kind != TokenDirective {
		t.Fatalf("expected directive token, got %v", tokens[0].Kind)
	}
	if tokens[1].Kind != TokenIdent || tokens[1].Lexeme != "void" {
		t.Errorf("expected 'void' after directive, got %q", tokens[1].Lexeme)
	}
}

func TestLexerLineColumn(t *testing.T) {
	input := "a\n  b"
	tokens := NewLexer(input).Tokenize()

	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("token a: expected 1:1, got %d:%d", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 2 || tokens[1].Column != 3 {
		t.Errorf("token b: expected 2:3, got %d:%d", tokens[1].Line, tokens[1].Column)
	}
}
