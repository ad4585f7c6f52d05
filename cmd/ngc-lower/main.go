package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ngc-lower/packages/compiler/config"
	"ngc-lower/packages/compiler/core"
)

// options are the flags shared by all commands
type options struct {
	configPath          string
	name                string
	preserveWhitespaces bool
	variadic            bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "ngc-lower [command]",
		Short:         "Lower component templates and binding expressions into template functions",
		Version:       core.VERSION.Full,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML compiler configuration")
	rootCmd.PersistentFlags().StringVar(&opts.name, "name", "", "Component name used for template function names")
	rootCmd.PersistentFlags().BoolVar(&opts.preserveWhitespaces, "preserve-whitespaces", false, "Keep whitespace-only text nodes")
	rootCmd.PersistentFlags().BoolVar(&opts.variadic, "variadic", false, "Lower every interpolation to interpolationV")

	rootCmd.AddCommand(newCompileCmd(opts), newExprCmd(opts), newWatchCmd(opts))
	return rootCmd
}

// compilerConfig loads the configuration file, if any, and applies the
// flags the user set explicitly on top of it.
func (o *options) compilerConfig(cmd *cobra.Command) (*config.CompilerConfig, error) {
	cfg := config.NewCompilerConfig()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath, os.Getenv)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	var overrides []config.CompilerConfigOption
	if flags.Changed("name") {
		overrides = append(overrides, config.WithTemplateName(o.name))
	}
	if flags.Changed("preserve-whitespaces") {
		overrides = append(overrides, config.WithPreserveWhitespaces(o.preserveWhitespaces))
	}
	if flags.Changed("variadic") {
		overrides = append(overrides, config.WithUseVariadicInterpolation(o.variadic))
	}
	for _, opt := range overrides {
		opt(cfg)
	}
	return cfg, nil
}
