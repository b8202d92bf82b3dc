// Package results loads strategy-simulation result files: directories of
// text files holding one turn count per line, named <Strategy>_<suffix>.txt.
package results

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StrategyName derives the strategy a result file belongs to: the base name
// with its extension stripped, up to the first underscore. Multiple runs of
// the same strategy share a prefix and are merged.
func StrategyName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if idx := strings.IndexByte(base, '_'); idx >= 0 {
		return base[:idx]
	}
	return base
}

// LoadDir reads every *.txt file under dir and returns turn counts grouped
// by strategy. Files are parsed concurrently; within a strategy, values keep
// file order (files sorted by name) so repeated loads are deterministic.
// Lines that do not parse as integers are skipped with a warning.
func LoadDir(ctx context.Context, dir string, logger zerolog.Logger) (map[string][]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read results dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	perFile := make([][]int, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			turns, err := loadFile(filepath.Join(dir, name), logger)
			if err != nil {
				return err
			}
			perFile[i] = turns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := make(map[string][]int)
	for i, name := range files {
		strategy := StrategyName(name)
		data[strategy] = append(data[strategy], perFile[i]...)
	}
	return data, nil
}

func loadFile(path string, logger zerolog.Logger) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}
	defer f.Close()

	var turns []int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			logger.Warn().Str("file", path).Str("line", line).Msg("skipping non-numeric result line")
			continue
		}
		turns = append(turns, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read result file %s: %w", path, err)
	}
	return turns, nil
}

// Strategies returns the strategy names in data, sorted.
func Strategies(data map[string][]int) []string {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Floats converts turn counts to float64 for the stats package.
func Floats(turns []int) []float64 {
	out := make([]float64, len(turns))
	for i, v := range turns {
		out[i] = float64(v)
	}
	return out
}
