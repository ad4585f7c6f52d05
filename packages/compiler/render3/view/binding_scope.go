package view

import (
	"fmt"

	"ngc-lower/packages/compiler/compiler_util"
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/util"
)

// DeclareLocalVarCallback receives the declaration of a scope variable the
// first time the variable is read in that scope.
type DeclareLocalVarCallback func(lhs *output.ReadVarExpr, rhs output.OutputExpression)

type bindingData struct {
	lhs      *output.ReadVarExpr
	rhs      output.OutputExpression
	declared bool
	// owned entries are declared by the scope that bound them
	owned bool
}

// referenceCounter numbers reference names across one compilation
type referenceCounter struct {
	next int
}

// BindingScope maps template local names to IR variables. Scopes are chained
// to their parent; a name found in an ancestor is copied into the scope that
// read it, so each scope declares the variables it uses on its own.
type BindingScope struct {
	parent          *BindingScope
	entries         map[string]*bindingData
	declareLocalVar DeclareLocalVarCallback
	references      *referenceCounter
}

var _ compiler_util.LocalResolver = (*BindingScope)(nil)

// RootBindingScope returns a new root scope binding `$event`
func RootBindingScope() *BindingScope {
	scope := &BindingScope{
		entries:    make(map[string]*bindingData),
		references: &referenceCounter{},
	}
	event := compiler_util.EventHandlerVars.Event
	scope.Set(event.Name, event, nil)
	return scope
}

// NestedScope creates a child scope. declareCallback may be nil.
func (s *BindingScope) NestedScope(declareCallback DeclareLocalVarCallback) *BindingScope {
	return &BindingScope{
		parent:          s,
		entries:         make(map[string]*bindingData),
		declareLocalVar: declareCallback,
		references:      s.references,
	}
}

// Get returns the variable bound to name, or nil. A variable with a value
// that was not declared in this scope yet is declared through the callback.
func (s *BindingScope) Get(name string) output.OutputExpression {
	for current := s; current != nil; current = current.parent {
		value, ok := current.entries[name]
		if !ok {
			continue
		}
		if value.owned {
			current.declare(value)
			if current != s {
				s.entries[name] = &bindingData{lhs: value.lhs, declared: true}
			}
			return value.lhs
		}
		if current != s {
			value = &bindingData{lhs: value.lhs, rhs: value.rhs}
			s.entries[name] = value
		}
		s.declare(value)
		return value.lhs
	}
	return nil
}

// Set binds name in this scope. rhs is the value the variable is declared
// with on first use; nil means the variable needs no declaration.
func (s *BindingScope) Set(name string, lhs *output.ReadVarExpr, rhs output.OutputExpression) *BindingScope {
	if existing, ok := s.entries[name]; ok {
		util.Fail(nil, "The name %s is already defined in scope to be %s", name, output.EmitExpression(existing.lhs))
	}
	s.entries[name] = &bindingData{lhs: lhs, rhs: rhs}
	return s
}

// SetOwned binds name like Set, but the variable is declared by this scope
// the first time it is read here or in a nested scope. Nested scopes reuse
// the declaration.
func (s *BindingScope) SetOwned(name string, lhs *output.ReadVarExpr, rhs output.OutputExpression) *BindingScope {
	s.Set(name, lhs, rhs)
	s.entries[name].owned = true
	return s
}

func (s *BindingScope) declare(value *bindingData) {
	if value.rhs == nil || value.declared {
		return
	}
	if s.declareLocalVar != nil {
		s.declareLocalVar(value.lhs, value.rhs)
	}
	value.declared = true
}

// GetLocal implements compiler_util.LocalResolver
func (s *BindingScope) GetLocal(name string) output.OutputExpression {
	return s.Get(name)
}

// NotifyImplicitReceiverUse implements compiler_util.LocalResolver
func (s *BindingScope) NotifyImplicitReceiverUse() {}

// FreshReferenceName returns a new `_r<N>` name, unique within the
// compilation the scope belongs to.
func (s *BindingScope) FreshReferenceName() string {
	name := fmt.Sprintf("%s%d", REFERENCE_PREFIX, s.references.next)
	s.references.next++
	return name
}
