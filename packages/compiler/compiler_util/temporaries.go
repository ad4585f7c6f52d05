package compiler_util

import (
	"fmt"

	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/util"
)

// Temporary is a synthesized variable handed out by a TemporaryStack.
// It is only valid until it is released.
type Temporary struct {
	stack    *TemporaryStack
	ordinal  int
	name     string
	released bool
}

// Name returns the variable name of the temporary
func (t *Temporary) Name() string {
	return t.name
}

// Ordinal is the stack depth the temporary was allocated at
func (t *Temporary) Ordinal() int {
	return t.ordinal
}

// Expr returns a fresh read of the temporary
func (t *Temporary) Expr() *output.ReadVarExpr {
	if t.released {
		util.Illegal("Temporary %s used after release", t.name)
	}
	return output.Variable(t.name)
}

// TemporaryStack hands out temporaries for one binding in LIFO order.
type TemporaryStack struct {
	bindingID string
	live      []*Temporary
	count     int

	// trace observes every allocation and release; tests use it.
	trace func(allocate bool, t *Temporary)
}

// NewTemporaryStack creates an empty stack for the given binding
func NewTemporaryStack(bindingID string) *TemporaryStack {
	return &TemporaryStack{bindingID: bindingID}
}

// Allocate pushes a new temporary
func (s *TemporaryStack) Allocate() *Temporary {
	t := &Temporary{stack: s, ordinal: len(s.live), name: TemporaryName(s.bindingID, len(s.live))}
	s.live = append(s.live, t)
	if len(s.live) > s.count {
		s.count = len(s.live)
	}
	if s.trace != nil {
		s.trace(true, t)
	}
	return t
}

// Release pops t, which must be the most recently allocated live temporary of s.
func (s *TemporaryStack) Release(t *Temporary) {
	n := len(s.live)
	if t.stack != s || t.released || n == 0 || s.live[n-1] != t {
		util.Illegal("Temporary %s released out of order", t.name)
	}
	t.released = true
	s.live = s.live[:n-1]
	if s.trace != nil {
		s.trace(false, t)
	}
}

// Depth is the number of live temporaries
func (s *TemporaryStack) Depth() int {
	return len(s.live)
}

// Count is the maximum depth reached, i.e. how many variables must be declared
func (s *TemporaryStack) Count() int {
	return s.count
}

// Declarations returns one `var` statement per temporary slot ever used
func (s *TemporaryStack) Declarations() []output.OutputStatement {
	stmts := make([]output.OutputStatement, s.count)
	for i := range stmts {
		stmts[i] = TemporaryDeclaration(s.bindingID, i)
	}
	return stmts
}

// TemporaryName returns the name of temporary number n of a binding
func TemporaryName(bindingID string, temporaryNumber int) string {
	return fmt.Sprintf("tmp_%s_%d", bindingID, temporaryNumber)
}

// TemporaryDeclaration declares temporary number n of a binding
func TemporaryDeclaration(bindingID string, temporaryNumber int) output.OutputStatement {
	return output.NewDeclareVarStmt(TemporaryName(bindingID, temporaryNumber), nil, nil, output.StmtModifierNone, nil)
}
