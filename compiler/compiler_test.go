package compiler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	r := Pipeline(ctx, []byte("fn main() -> int { println(1+2); return 0; }"))

	require.NoError(t, r.Err)
	assert.Empty(t, r.Stage)

	assert.NotEmpty(t, r.Tokens)
	require.NotNil(t, r.Prog)
	assert.Len(t, r.Prog.Decls, 1)

	require.NotNil(t, r.Info)
	assert.Equal(t, "int", r.Info.Funcs["main"].Ret)

	require.NotNil(t, r.TAC)
	assert.Len(t, r.TAC.Funcs, 1)
	assert.Len(t, r.Graphs, 1)

	assert.Equal(t, "3\n", string(r.Output))
	assert.Equal(t, 0, r.ExitCode)
}

func TestPipelineStages(t *testing.T) {
	for _, tc := range []struct {
		stage string
		src   string
	}{
		{"tokenize", "fn main() -> int { return ?; }"},
		{"parse", "fn main() -> int { return 0 }"},
		{"analyze", "fn f() -> int { return 0; }"},
		{"run", "fn main() -> int { return 1 / 0; }"},
	} {
		t.Run(tc.stage, func(t *testing.T) {
			ctx := context.Background()

			r := Pipeline(ctx, []byte(tc.src))

			require.Error(t, r.Err)
			assert.Equal(t, tc.stage, r.Stage)
		})
	}
}

func TestPipelineStopsBeforeLowering(t *testing.T) {
	ctx := context.Background()

	r := Pipeline(ctx, []byte("fn f() -> int { return 0; }"))

	var e diag.SemaError
	require.ErrorAs(t, r.Err, &e)
	assert.Equal(t, "analyze", r.Stage)

	// the failed analysis leaves nothing lowered, built or run
	assert.NotNil(t, r.Prog)
	assert.Nil(t, r.Info)
	assert.Nil(t, r.TAC)
	assert.Nil(t, r.Graphs)
	assert.Empty(t, r.Output)
}

func TestPipelineKeepsOutputOnRunFailure(t *testing.T) {
	ctx := context.Background()

	r := Pipeline(ctx, []byte(`fn main() -> int { println("x"); return 1 / 0; }`))

	var e diag.RuntimeError
	require.ErrorAs(t, r.Err, &e)
	assert.Equal(t, "run", r.Stage)
	assert.Equal(t, "x\n", string(r.Output))
}

func TestRunFile(t *testing.T) {
	ctx := context.Background()

	name := filepath.Join(t.TempDir(), "main.mini")
	err := os.WriteFile(name, []byte("fn main() -> int { println(1+2); return 0; }"), 0o644)
	require.NoError(t, err)

	var buf bytes.Buffer

	code, err := RunFile(ctx, name, &buf)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "3\n", buf.String())
}

func TestParseFileMissing(t *testing.T) {
	ctx := context.Background()

	_, err := ParseFile(ctx, filepath.Join(t.TempDir(), "nope.mini"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}

func TestLowerFile(t *testing.T) {
	ctx := context.Background()

	name := filepath.Join(t.TempDir(), "main.mini")
	err := os.WriteFile(name, []byte("fn main() -> int { return 0; }"), 0o644)
	require.NoError(t, err)

	p, err := LowerFile(ctx, name)

	require.NoError(t, err)
	assert.Equal(t, "func main()\nentry:\n  t1 = const 0\n  ret t1\n", p.String())
}
