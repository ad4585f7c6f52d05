package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeting = `
template:
  - element: h1
    attrs: {class: title}
    children:
      - bound_text: 'Hello {{ user?.name }}!'
  - element: button
    outputs: {click: greet($event)}
    children:
      - text: Greet
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCompileCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "greeting.yaml", greeting)

	out, _, err := run(t, "compile", "--name", "Greeting", path)
	require.NoError(t, err)
	want := strings.Join([]string{
		"const _c0 = ['class', 'title'];",
		"const _c1 = [1, 'click'];",
		"function Greeting_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    ɵɵelementStart(0, 'h1', _c0);",
		"    ɵɵtext(1);",
		"    ɵɵelementEnd();",
		"    ɵɵelementStart(2, 'button', _c1);",
		"    ɵɵlistener('click', function Greeting_Template_button_click_listener($event) {",
		"      return (ctx.greet($event) as any) !== false;",
		"    });",
		"    ɵɵtext(3, 'Greet');",
		"    ɵɵelementEnd();",
		"  }",
		"  if (rf & 2) {",
		"    ɵɵtextBinding(1, ɵɵinterpolation1('Hello ', ((ctx.user == null) ? null : ctx.user.name), '!'));",
		"  }",
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestCompileDefinition(t *testing.T) {
	path := writeFile(t, t.TempDir(), "greeting.yaml", greeting)

	out, _, err := run(t, "compile", "--definition", path)
	require.NoError(t, err)
	assert.Contains(t, out, "{template: function Template(rf, ctx) {")
}

func TestCompileWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greeting.yaml", greeting)
	configPath := writeFile(t, dir, "ngc.yaml", "template_name: ${CMP_NAME:-Hello}\nuse_variadic_interpolation: true\n")

	out, _, err := run(t, "compile", "--config", configPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "function Hello_Template(rf, ctx) {")
	assert.Contains(t, out, "ɵɵinterpolationV(['Hello ', ((ctx.user == null) ? null : ctx.user.name), '!'])")

	// flags win over the file
	out, _, err = run(t, "compile", "--config", configPath, "--name", "Flagged", "--variadic=false", path)
	require.NoError(t, err)
	assert.Contains(t, out, "function Flagged_Template(rf, ctx) {")
	assert.Contains(t, out, "ɵɵinterpolation1(")
}

func TestCompileErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "compile", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeFile(t, dir, "bad.yaml", "template:\n  - element: div\n    inputs: {'@fade': state}\n")
	_, _, err = run(t, "compile", path)
	assert.EqualError(t, err, path+": Feature animations is not supported yet ("+path+"@2:13)")

	_, _, err = run(t, "compile")
	assert.Error(t, err)
}

func TestExprCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "safe navigation",
			args: []string{"expr", "user?.name"},
			want: "return (ctx.user == null) ? null : ctx.user.name;\n",
		},
		{
			name: "action",
			args: []string{"expr", "--action", "--id", "7", "greet($event)"},
			want: "const pd_7 = (ctx.greet($event) as any) !== false;\n",
		},
		{
			name: "interpolation",
			args: []string{"expr", "Hi {{name}}"},
			want: "return ɵinlineInterpolate(1, 'Hi ', ctx.name, '');\n",
		},
		{
			name: "variadic interpolation",
			args: []string{"expr", "--variadic", "Hi {{name}}"},
			want: "return ɵinterpolate(1, ['Hi ', ctx.name, '']);\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestExprErrors(t *testing.T) {
	_, _, err := run(t, "expr", "--action", "a = b | async")
	assert.Error(t, err)

	_, _, err = run(t, "expr", "a +")
	assert.Error(t, err)
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greeting.yaml", greeting)
	writeFile(t, dir, "other.yaml", "ignored")

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 8)
	var stderr bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, &stderr, func() { changes <- struct{}{} })
	}()

	// the watch is registered before the loop starts; give it time to start
	deadline := time.After(5 * time.Second)
	for {
		writeFile(t, dir, "greeting.yaml", greeting)
		select {
		case <-changes:
		case <-time.After(200 * time.Millisecond):
			continue
		case <-deadline:
			t.Fatal("no change reported")
		}
		break
	}

	cancel()
	require.NoError(t, <-done)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "ngc-lower version 0.4.0\n", out)
}
