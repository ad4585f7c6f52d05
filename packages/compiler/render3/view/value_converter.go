package view

import (
	"ngc-lower/packages/compiler/compiler_util"
	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	r3_identifiers "ngc-lower/packages/compiler/render3/r3_identifiers"
)

// valueConverter replaces pipes and literal collections of a binding with
// runtime instructions of the template unit it belongs to.
type valueConverter struct {
	builder *TemplateDefinitionBuilder
}

var _ compiler_util.BuiltinConverterFactory = (*valueConverter)(nil)

// CreatePipeConverter instantiates the pipe in a data slot of its own and
// binds it with pipeBind<N>(slot, varOffset, value, ...args).
func (c *valueConverter) CreatePipeConverter(name string, argCount int) ep.BuiltinConverter {
	b := c.builder
	slot := b.allocateDataSlot()
	b.instruction(&b.creationCode, nil, r3_identifiers.Pipe, output.Literal(slot), output.Literal(name))
	if pipeType, ok := b.shared.pipeTypeByName[name]; ok {
		b.shared.pipes.add(pipeType)
	}

	// One binding slot per argument plus one for the result
	varOffset := b.allocatePureFunctionSlots(1 + argCount)
	return func(args []output.OutputExpression) output.OutputExpression {
		params := []output.OutputExpression{output.Literal(slot), output.Literal(varOffset)}
		if len(args) > 4 {
			params = append(params, output.LiteralArr(args))
		} else {
			params = append(params, args...)
		}
		return output.CallFn(output.ImportExpr(r3_identifiers.PipeBind(len(args))), params, nil)
	}
}

// CreateLiteralArrayConverter returns a converter that produces a shared
// constant for constant arrays and a pure function call otherwise.
func (c *valueConverter) CreateLiteralArrayConverter(argCount int) ep.BuiltinConverter {
	return func(args []output.OutputExpression) output.OutputExpression {
		return c.pureLiteral(output.LiteralArr(args), args)
	}
}

// CreateLiteralMapConverter is the map counterpart of CreateLiteralArrayConverter
func (c *valueConverter) CreateLiteralMapConverter(keys []ep.LiteralMapKey) ep.BuiltinConverter {
	return func(values []output.OutputExpression) output.OutputExpression {
		entries := make([]*output.LiteralMapEntry, len(keys))
		for i, k := range keys {
			entries[i] = output.NewLiteralMapEntry(k.Key, values[i], k.Quoted)
		}
		return c.pureLiteral(output.LiteralMap(entries), values)
	}
}

func (c *valueConverter) pureLiteral(literal output.OutputExpression, values []output.OutputExpression) output.OutputExpression {
	b := c.builder
	if allConstant(values) {
		return b.shared.constantPool.GetConstLiteral(literal, true)
	}

	literalFactory, literalFactoryArguments := b.shared.constantPool.GetLiteralFactory(literal)
	startSlot := b.allocatePureFunctionSlots(1 + len(literalFactoryArguments))
	params := []output.OutputExpression{output.Literal(startSlot), literalFactory}
	if len(literalFactoryArguments) > 8 {
		params = append(params, output.LiteralArr(literalFactoryArguments))
	} else {
		params = append(params, literalFactoryArguments...)
	}
	return output.CallFn(output.ImportExpr(r3_identifiers.PureFunction(len(literalFactoryArguments))), params, nil)
}

func allConstant(values []output.OutputExpression) bool {
	for _, v := range values {
		if !v.IsConstant() {
			return false
		}
	}
	return true
}
