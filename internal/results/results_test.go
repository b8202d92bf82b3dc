package results

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeResultFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStrategyName(t *testing.T) {
	assert.Equal(t, "SelectHighest", StrategyName("SelectHighest_results.txt"))
	assert.Equal(t, "WeightedSelect", StrategyName("WeightedSelect_run_2.txt"))
	assert.Equal(t, "Focused", StrategyName("Focused.txt"))
}

func TestLoadDirGroupsByStrategy(t *testing.T) {
	dir := t.TempDir()
	writeResultFile(t, dir, "SelectHighest_run1.txt", "10\n12\n11\n")
	writeResultFile(t, dir, "SelectHighest_run2.txt", "13\n")
	writeResultFile(t, dir, "SelectRarest_run1.txt", "20\n22\n")
	writeResultFile(t, dir, "notes.md", "ignore me\n")

	data, err := LoadDir(context.Background(), dir, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, data, 2)
	assert.Equal(t, []int{10, 12, 11, 13}, data["SelectHighest"])
	assert.Equal(t, []int{20, 22}, data["SelectRarest"])
	assert.Equal(t, []string{"SelectHighest", "SelectRarest"}, Strategies(data))
}

func TestLoadDirSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	writeResultFile(t, dir, "Probabilistic_run.txt", "8\nnot-a-number\n\n9\n")

	data, err := LoadDir(context.Background(), dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9}, data["Probabilistic"])
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	require.Error(t, err)
}

func TestFloats(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, Floats([]int{1, 2, 3}))
	assert.Empty(t, Floats(nil))
}
