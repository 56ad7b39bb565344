package lift_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/lift"
)

func TestLift_DebugDumpWritesModuleBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	lf := lift.NewLifter(nil, lift.WithDebugFs(fs), lift.WithDebugDumpPath("/tmp/dumps/out.wasm"))

	module, _, err := lf.Lift()
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, "/tmp/dumps/out.wasm")
	require.NoError(t, err)
	require.Equal(t, module, got)
}

func TestLift_NoDebugDumpPathWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	lf := lift.NewLifter(nil, lift.WithDebugFs(fs))

	_, _, err := lf.Lift()
	require.NoError(t, err)

	entries, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	require.Empty(t, entries)
}
