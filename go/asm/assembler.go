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
	"io"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

// Parse consumes all tokens of the given lexer in a single pass and returns
// the instruction sequence, with control-transfer instructions still
// referring to labels, together with the table of defined labels.
//
// A source line consists of any number of label definitions followed by at
// most one instruction. Operands have to be on the same line as their
// mnemonic. Label definitions occupy no address: a label is bound to the
// address of the next emitted instruction.
func Parse(lexer *Lexer) ([]pancake.Instruction, pancake.LabelTable, error) {
	p := parser{
		lexer:  lexer,
		labels: pancake.LabelTable{},
	}
	if err := p.parse(); err != nil {
		return nil, nil, err
	}
	return p.code, p.labels, nil
}

type parser struct {
	lexer  *Lexer
	peeked *Token

	code   []pancake.Instruction
	labels pancake.LabelTable

	// instructionLine is the line of the last emitted instruction.
	instructionLine int
}

func (p *parser) parse() error {
	for {
		token, err := p.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if token.Line == p.instructionLine {
			return unexpected(token)
		}

		switch token.Kind {
		case LABEL:
			if _, found := p.labels[token.Text]; found {
				return &pancake.AssemblyError{Line: token.Line, Token: token.Text, Err: pancake.ErrDuplicateLabel}
			}
			p.labels[token.Text] = len(p.code)
		case IDENT:
			instruction, err := p.instruction(token)
			if err != nil {
				return err
			}
			p.code = append(p.code, instruction.WithLine(token.Line))
			p.instructionLine = token.Line
		default:
			return unexpected(token)
		}
	}
}

// instruction decodes the mnemonic and consumes the operand it requires.
func (p *parser) instruction(mnemonic Token) (pancake.Instruction, error) {
	op, found := pancake.LookupMnemonic(mnemonic.Text)
	if !found {
		return pancake.Instruction{}, &pancake.AssemblyError{
			Line:  mnemonic.Line,
			Token: mnemonic.Text,
			Err:   pancake.ErrUnknownMnemonic,
		}
	}

	switch {
	case op.HasValue():
		operand, err := p.operand(mnemonic, NUMBER)
		if err != nil {
			return pancake.Instruction{}, err
		}
		return pancake.Push(operand.Value), nil

	case op.HasTarget():
		operand, err := p.operand(mnemonic, IDENT)
		if err != nil {
			return pancake.Instruction{}, err
		}
		return pancake.NewBranch(op, pancake.SymbolicTarget(operand.Text)), nil
	}
	return pancake.NewInstruction(op), nil
}

// operand consumes the operand of the given mnemonic, which has to be of the
// given kind and located on the same line.
func (p *parser) operand(mnemonic Token, kind TokenKind) (Token, error) {
	token, err := p.peek()
	if err == io.EOF || (err == nil && token.Line != mnemonic.Line) {
		return Token{}, &pancake.AssemblyError{
			Line:  mnemonic.Line,
			Token: mnemonic.Text,
			Err:   pancake.ErrMissingOperand,
		}
	}
	if err != nil {
		return Token{}, err
	}
	p.peeked = nil
	if token.Kind != kind {
		return Token{}, &pancake.AssemblyError{
			Line:  token.Line,
			Token: token.String(),
			Err:   pancake.ErrInvalidOperand,
		}
	}
	return token, nil
}

func (p *parser) next() (Token, error) {
	if p.peeked != nil {
		token := *p.peeked
		p.peeked = nil
		return token, nil
	}
	return p.lexer.Next()
}

func (p *parser) peek() (Token, error) {
	if p.peeked != nil {
		return *p.peeked, nil
	}
	token, err := p.lexer.Next()
	if err != nil {
		return Token{}, err
	}
	p.peeked = &token
	return token, nil
}

func unexpected(token Token) error {
	return &pancake.AssemblyError{
		Line:  token.Line,
		Token: token.String(),
		Err:   pancake.ErrUnexpectedToken,
	}
}
