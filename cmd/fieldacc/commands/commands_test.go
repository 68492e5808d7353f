package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fieldacc/blobstore"
	"github.com/hupe1980/fieldacc/dump"
	"github.com/hupe1980/fieldacc/layout"
	"github.com/hupe1980/fieldacc/testutil"
)

// env isolates a test from user configuration and points the local store
// at a temporary directory.
func env(t *testing.T) (storeDir, cfgFile string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	storeDir = filepath.Join(dir, "store")
	t.Setenv("FIELDACC_STORE_LOCAL_PATH", storeDir)
	return storeDir, filepath.Join(dir, "config.yaml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "fieldacc dev (commit: none, built: unknown)\n", out)
}

func TestGenReduce(t *testing.T) {
	storeDir, cfgFile := env(t)

	_, err := run(t, "--config", cfgFile, "gen", "--out", "in.facc",
		"--records", "300", "--replicas", "3", "--stride", "310", "--seed", "7")
	require.NoError(t, err)

	store := blobstore.NewLocalStore(storeDir)
	in, err := dump.Load(t.Context(), store, "in.facc", nil)
	require.NoError(t, err)
	require.Equal(t, 3, in.NArray)
	require.Equal(t, 310, in.Stride)
	want := testutil.ReferenceSum(in.Records, in.N, in.NArray, in.Stride)

	out, err := run(t, "--config", cfgFile, "reduce", "--in", "in.facc", "--out", "out.facc")
	require.NoError(t, err)
	assert.Contains(t, out, "reduced 3 replicas of 300 records")

	got, err := dump.Load(t.Context(), store, "out.facc", nil)
	require.NoError(t, err)
	require.Equal(t, 1, got.NArray)
	require.Equal(t, 300, got.N)

	for i := range want {
		for l := 0; l < layout.Components; l++ {
			assert.InDelta(t, want[i][l], got.Records[i][l], 1e-5, "record %d lane %d", i, l)
		}
	}
}

func TestReduce_KeepReplicas(t *testing.T) {
	storeDir, cfgFile := env(t)
	t.Setenv("FIELDACC_REDUCE_ENGINE", "sync")
	t.Setenv("FIELDACC_DUMP_COMPRESSION", "lz4")

	_, err := run(t, "--config", cfgFile, "gen", "--out", "in.facc", "--records", "64", "--replicas", "2", "--seed", "1")
	require.NoError(t, err)
	_, err = run(t, "--config", cfgFile, "reduce", "--in", "in.facc", "--out", "all.facc", "--keep-replicas")
	require.NoError(t, err)

	h, err := dump.Stat(t.Context(), blobstore.NewLocalStore(storeDir), "all.facc")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), h.NArray)
	assert.Equal(t, uint64(64), h.N)
}

func TestReduce_MissingInput(t *testing.T) {
	_, cfgFile := env(t)

	_, err := run(t, "--config", cfgFile, "reduce", "--in", "nope.facc", "--out", "out.facc")
	require.Error(t, err)
}

func TestGen_TooManyReplicas(t *testing.T) {
	_, cfgFile := env(t)

	_, err := run(t, "--config", cfgFile, "gen", "--out", "x.facc", "--replicas", "12")
	require.Error(t, err)
}

func TestInspectAndList(t *testing.T) {
	_, cfgFile := env(t)

	for _, name := range []string{"a.facc", "runs/b.facc"} {
		_, err := run(t, "--config", cfgFile, "gen", "--out", name, "--records", "10", "--replicas", "2", "--seed", "3")
		require.NoError(t, err)
	}

	out, err := run(t, "--config", cfgFile, "inspect", "a.facc")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "a.facc")

	out, err = run(t, "--config", cfgFile, "list")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.facc", "runs/b.facc"}, strings.Fields(out))

	out, err = run(t, "--config", cfgFile, "list", "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/b.facc"}, strings.Fields(out))
}

func TestMetricsOutput(t *testing.T) {
	_, cfgFile := env(t)
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")
	t.Setenv("FIELDACC_METRICS_ENABLED", "true")
	t.Setenv("FIELDACC_METRICS_OUTPUT", metricsFile)

	_, err := run(t, "--config", cfgFile, "gen", "--out", "in.facc", "--records", "32", "--replicas", "2", "--seed", "5")
	require.NoError(t, err)
	_, err = run(t, "--config", cfgFile, "reduce", "--in", "in.facc", "--out", "out.facc")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fieldacc_reduced_records_total 32")
}

func TestConfigInitAndShow(t *testing.T) {
	_, cfgFile := env(t)

	out, err := run(t, "--config", cfgFile, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfgFile)

	_, err = run(t, "--config", cfgFile, "config", "init")
	require.Error(t, err)

	_, err = run(t, "--config", cfgFile, "config", "init", "--force")
	require.NoError(t, err)

	t.Setenv("FIELDACC_STORE_S3_SECRET_KEY", "hunter2")
	out, err = run(t, "--config", cfgFile, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "block_size: 256")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "hunter2")
}

func TestInvalidConfig(t *testing.T) {
	_, cfgFile := env(t)
	require.NoError(t, os.WriteFile(cfgFile, []byte("store:\n  kind: ftp\n"), 0o600))

	_, err := run(t, "--config", cfgFile, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.kind")
}
