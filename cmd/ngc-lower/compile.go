package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ngc-lower/internal/fixture"
	"ngc-lower/packages/compiler/config"
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/render3/view"
)

func newCompileCmd(opts *options) *cobra.Command {
	var definition bool
	cmd := &cobra.Command{
		Use:   "compile <fixture.yaml>",
		Short: "Compile a template fixture and print the generated declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.compilerConfig(cmd)
			if err != nil {
				return err
			}
			code, err := compileFixture(args[0], cfg, definition)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().BoolVar(&definition, "definition", false, "Print the component definition fields instead of the declarations")
	return cmd
}

// compileFixture loads and compiles the fixture at path and renders the result
func compileFixture(path string, cfg *config.CompilerConfig, definition bool) (string, error) {
	f, err := fixture.Load(path, fixture.Options{PreserveWhitespaces: cfg.PreserveWhitespaces})
	if err != nil {
		return "", err
	}
	res, err := view.CompileTemplate(f.Nodes, f.Metadata(cfg.TemplateMetadata()), nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	var sb strings.Builder
	if definition {
		sb.WriteString(output.EmitStatements(res.Statements))
		if len(res.Statements) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(output.EmitExpression(res.DefinitionMap().ToLiteralMap()))
	} else {
		sb.WriteString(output.EmitStatements(res.Declarations()))
	}
	sb.WriteString("\n")
	return sb.String(), nil
}
