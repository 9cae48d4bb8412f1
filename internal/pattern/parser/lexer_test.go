package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexClassifiesPunctuation(t *testing.T) {
	tokens := NewLexer("{ } % + - >").Lex()
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TokenLBrace, TokenRBrace, TokenPercent, TokenPlus, TokenMinus, TokenGreater, TokenEOF,
	}, types)
}

func TestLexWordGluesLabelAndValue(t *testing.T) {
	tokens := NewLexer("FILE:SPY.TXT").Lex()
	assert.Equal(t, TokenWord, tokens[0].Type)
	assert.Equal(t, "FILE:SPY.TXT", tokens[0].Value)
	assert.Equal(t, TokenEOF, tokens[1].Type)
}

func TestLexTracksLineAndColumn(t *testing.T) {
	tokens := NewLexer("AAA\nBBB").Lex()
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Col)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 1, tokens[1].Col)
}

func TestLexAlwaysTerminatesWithEOF(t *testing.T) {
	tokens := NewLexer("   \t\n  ").Lex()
	assert.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Type)
}
