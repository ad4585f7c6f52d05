package view

import (
	"strings"

	"ngc-lower/packages/compiler/core"
	"ngc-lower/packages/compiler/output"
	constant "ngc-lower/packages/compiler/pool"
	"ngc-lower/packages/compiler/render3"
	r3_identifiers "ngc-lower/packages/compiler/render3/r3_identifiers"
	"ngc-lower/packages/compiler/util"
)

// GetQueryPredicate gets the query predicate expression
func GetQueryPredicate(
	query R3QueryMetadata,
	constantPool *constant.ConstantPool,
) output.OutputExpression {
	switch predicate := query.Predicate.(type) {
	case []string:
		selectors := []output.OutputExpression{}
		for _, selector := range predicate {
			// Each item in predicates array may contain strings with comma-separated refs
			// (for ex. 'ref, ref1, ..., refN'), thus we extract individual refs and store them
			// as separate array entities
			for _, part := range strings.Split(selector, ",") {
				selectors = append(selectors, output.Literal(strings.TrimSpace(part)))
			}
		}
		return constantPool.GetConstLiteral(output.LiteralArr(selectors), true)
	case render3.MaybeForwardRefExpression:
		// The original predicate may have been wrapped in a `forwardRef()` call.
		if predicate.ForwardRef == render3.ForwardRefHandlingWrapped {
			return output.CallFn(output.ImportExpr(r3_identifiers.ResolveForwardRef),
				[]output.OutputExpression{predicate.Expression}, nil)
		}
		return predicate.Expression
	case output.OutputExpression:
		return predicate
	}
	util.Fail(nil, "Unsupported predicate for query %s", query.PropertyName)
	return nil
}

// CreateQueryCreateCall creates the `query(slot, predicate, descendants, read?)` call
func CreateQueryCreateCall(
	query R3QueryMetadata,
	constantPool *constant.ConstantPool,
	slot int,
) *output.InvokeFunctionExpr {
	parameters := []output.OutputExpression{
		output.Literal(slot),
		GetQueryPredicate(query, constantPool),
		output.Literal(query.Descendants),
	}
	if query.Read != nil {
		parameters = append(parameters, query.Read)
	}
	return output.CallFn(output.ImportExpr(r3_identifiers.Query), parameters, nil)
}

// createQueryRefresh creates the update of the query's context property,
// e.g. (queryRefresh(tmp = load(slot)) && (ctx.someDir = tmp));
func createQueryRefresh(query R3QueryMetadata, slot int, temporary *output.ReadVarExpr) output.OutputStatement {
	getQueryList := output.CallFn(output.ImportExpr(r3_identifiers.Load),
		[]output.OutputExpression{output.Literal(slot)}, nil)
	refresh := output.CallFn(output.ImportExpr(r3_identifiers.QueryRefresh),
		[]output.OutputExpression{temporary.Set(getQueryList)}, nil)
	ctxProp := output.Prop(output.Variable(CONTEXT_NAME), query.PropertyName)
	var updateDirective output.OutputExpression
	if query.First {
		updateDirective = ctxProp.Set(output.Prop(temporary, "first")) // ctx.prop = temporary.first
	} else {
		updateDirective = ctxProp.Set(temporary) // ctx.prop = temporary
	}
	return output.ToStmt(output.And(refresh, updateDirective))
}

// renderFlagCheckIfStmt creates an if statement that checks render flags
// if (rf & flags) { .. }
func renderFlagCheckIfStmt(flags core.RenderFlags, statements []output.OutputStatement) *output.IfStmt {
	condition := output.BitwiseAnd(output.Variable(RENDER_FLAGS), output.Literal(int(flags)))
	return output.If(condition, statements)
}

// CreateViewQueriesFunction defines and updates any view queries in a
// standalone `<name>_Query(rf, ctx)` function. Query i lives in slot i.
func CreateViewQueriesFunction(
	viewQueries []R3QueryMetadata,
	constantPool *constant.ConstantPool,
	name string,
) *output.FunctionExpr {
	createStatements := []output.OutputStatement{}
	updateStatements := []output.OutputStatement{}

	var prefix []output.OutputStatement
	tempAllocator := TemporaryAllocator(func(st output.OutputStatement) {
		prefix = append(prefix, st)
	}, TEMPORARY_NAME)

	for slot, query := range viewQueries {
		createStatements = append(createStatements, output.ToStmt(CreateQueryCreateCall(query, constantPool, slot)))
		updateStatements = append(updateStatements, createQueryRefresh(query, slot, tempAllocator()))
	}

	fnName := ""
	if name != "" {
		fnName = name + "_Query"
	}

	body := append(prefix,
		renderFlagCheckIfStmt(core.RenderFlagsCreate, createStatements),
		renderFlagCheckIfStmt(core.RenderFlagsUpdate, updateStatements),
	)
	return output.Fn(
		[]*output.FnParam{
			output.NewFnParam(RENDER_FLAGS, output.NumberType),
			output.NewFnParam(CONTEXT_NAME, nil),
		},
		body,
		fnName,
	)
}
