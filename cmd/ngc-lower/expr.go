package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ngc-lower/packages/compiler/compiler_util"
	"ngc-lower/packages/compiler/config"
	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/render3/view"
)

func newExprCmd(opts *options) *cobra.Command {
	var (
		action    bool
		bindingID string
	)
	cmd := &cobra.Command{
		Use:   "expr <expression>",
		Short: "Lower one binding expression against the component context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.compilerConfig(cmd)
			if err != nil {
				return err
			}
			code, err := lowerExpression(args[0], bindingID, action, cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().BoolVar(&action, "action", false, "Lower the expression as an event handler")
	cmd.Flags().StringVar(&bindingID, "id", "0", "Binding id used to name temporaries")
	return cmd
}

// lowerExpression parses source and lowers it the way a binding on the
// component host would be. Property bindings end in a return of their value.
func lowerExpression(source, bindingID string, action bool, cfg *config.CompilerConfig) (string, error) {
	parser := ep.NewParser(ep.NewLexer())
	limit := cfg.InlineInterpolationLimit
	if cfg.UseVariadicInterpolation {
		limit = 0
	}
	interpolation := compiler_util.InlineOrVariadicInterpolation(limit)
	implicitReceiver := output.Variable(view.CONTEXT_NAME)

	var stmts []output.OutputStatement
	if action {
		parsed := parser.ParseAction(source, "expr", 0)
		if err := parsed.Err(); err != nil {
			return "", err
		}
		res, err := compiler_util.ConvertActionBinding(nil, implicitReceiver, parsed.AST, bindingID, interpolation)
		if err != nil {
			return "", err
		}
		stmts = res.Stmts
	} else {
		parsed := parser.ParseInterpolation(source, "expr", 0)
		if parsed == nil {
			parsed = parser.ParseBinding(source, "expr", 0)
		}
		if err := parsed.Err(); err != nil {
			return "", err
		}
		withoutBuiltins, err := compiler_util.TryConvertPropertyBindingBuiltins(compiler_util.LiteralConverterFactory{}, parsed.AST)
		if err != nil {
			return "", err
		}
		res, err := compiler_util.ConvertPropertyBinding(
			nil, implicitReceiver, withoutBuiltins, bindingID, compiler_util.BindingFormTrySimple, interpolation)
		if err != nil {
			return "", err
		}
		stmts = append(res.Stmts, output.NewReturnStatement(res.CurrValExpr, nil))
	}

	var sb strings.Builder
	sb.WriteString(output.EmitStatements(stmts))
	sb.WriteString("\n")
	return sb.String(), nil
}
