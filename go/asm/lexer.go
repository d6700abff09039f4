// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package asm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

// TokenKind classifies the tokens of the source text.
type TokenKind byte

const (
	IDENT  TokenKind = iota // < mnemonic or label reference
	NUMBER                  // < non-negative 16-bit decimal literal
	LABEL                   // < label definition, an identifier directly followed by ':'
)

func (k TokenKind) String() string {
	switch k {
	case IDENT:
		return "identifier"
	case NUMBER:
		return "number"
	case LABEL:
		return "label definition"
	}
	return fmt.Sprintf("TokenKind(%d)", byte(k))
}

// Token is a single lexical element of the source text.
type Token struct {
	Kind  TokenKind
	Text  string        // identifier or label name without ':', literal digits
	Value pancake.Value // value of a NUMBER token
	Line  int           // 1-based
}

func (t Token) String() string {
	if t.Kind == LABEL {
		return t.Text + ":"
	}
	return t.Text
}

// Lexer splits source text into tokens. Comments start with "//" and extend
// to the end of the line; whitespace only separates tokens. Tokens are
// produced on demand and the sequence can be consumed only once.
type Lexer struct {
	src  string
	pos  int
	line int
	err  error
}

// NewLexer creates a lexer for the given source text.
func NewLexer(text string) *Lexer {
	return &Lexer{src: text, line: 1}
}

// Next returns the next token. At the end of the input io.EOF is returned.
// Lexical errors are reported as *pancake.AssemblyError. Once an error was
// returned, every further call returns the same error.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	token, err := l.scan()
	if err != nil {
		l.err = err
	}
	return token, err
}

func (l *Lexer) scan() (Token, error) {
	l.skipSeparators()
	if l.pos >= len(l.src) {
		return Token{}, io.EOF
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case isDigit(c):
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		return l.number(l.src[start:l.pos])

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if l.pos < len(l.src) && l.src[l.pos] == ':' {
			l.pos++
			return Token{Kind: LABEL, Text: text, Line: l.line}, nil
		}
		return Token{Kind: IDENT, Text: text, Line: l.line}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return Token{}, &pancake.AssemblyError{
		Line:  l.line,
		Token: string(r),
		Err:   pancake.ErrInvalidCharacter,
	}
}

func (l *Lexer) number(text string) (Token, error) {
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) {
			return Token{}, &pancake.AssemblyError{Line: l.line, Token: text, Err: pancake.ErrInvalidOperand}
		}
	}
	value, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Token{}, &pancake.AssemblyError{Line: l.line, Token: text, Err: pancake.ErrLiteralOutOfRange}
		}
		return Token{}, &pancake.AssemblyError{Line: l.line, Token: text, Err: pancake.ErrInvalidOperand}
	}
	return Token{Kind: NUMBER, Text: text, Value: pancake.Value(value), Line: l.line}, nil
}

// skipSeparators advances past whitespace, line breaks and comments.
func (l *Lexer) skipSeparators() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// Tokenize splits the full source text into tokens.
func Tokenize(text string) ([]Token, error) {
	var res []Token
	lexer := NewLexer(text)
	for {
		token, err := lexer.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, token)
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
