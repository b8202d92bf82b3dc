package optlog

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// paramScanWindow is how many lines after an improvement marker are
// inspected for parameter assignments before the scan gives up.
const paramScanWindow = 19

var (
	// "Gen 123 - Fit: 16.1234 (mean=19.42, var=9.50, p95=25.0, max=45)"
	// The p95/max group is missing in older log formats. Numbers use either
	// comma or period as the decimal separator.
	genPattern = regexp.MustCompile(
		`Gen\s+(\d+).*?Fit:\s*(\d+(?:[.,]\d+)?)\s*\(mean=(\d+(?:[.,]\d+)?),\s*var=(\d+(?:[.,]\d+)?)(?:,\s*p95=(\d+(?:[.,]\d+)?),\s*max=(\d+(?:[.,]\d+)?))?`)

	// Literal phrases the optimizers print when they accept a candidate.
	markerPattern = regexp.MustCompile(
		`\*\*\*\s*(IMPROVEMENT|New best|Confirmed improvement|Accepting candidate|NEW BEST|GLOBAL BEST|BASELINE)`)

	// Indented "<name> = <value>" lines following a marker.
	paramPattern = regexp.MustCompile(`^\s+(\w+) = ([-\d,.]+)`)
)

// parseNumber converts a numeric token that may use a comma as its decimal
// separator. A stray trailing period (sentence punctuation in the log) is
// stripped before conversion.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimRight(s, ".")
	return strconv.ParseFloat(s, 64)
}

// paramScan is an improvement-marker scan in progress. It survives across
// polls so that a read boundary between a marker and its parameter dump
// cannot change the extracted records.
type paramScan struct {
	rolling Rolling
	params  map[string]float64
	scanned int
}

// Tailer incrementally parses one optimizer log file. It remembers the byte
// offset already consumed, a buffered partial trailing line, the rolling
// metric fields, and any parameter scan still in progress. Not safe for
// concurrent use; the monitor loop owns it from a single goroutine.
type Tailer struct {
	path   string
	logger zerolog.Logger

	offset  int64
	partial string
	rolling Rolling
	pending *paramScan
	records []Record
}

// NewTailer creates a tailer for path. The file does not need to exist yet;
// polling a missing file is a no-op.
func NewTailer(path string, logger zerolog.Logger) *Tailer {
	return &Tailer{path: path, logger: logger.With().Str("log", path).Logger()}
}

// Path returns the monitored file path.
func (t *Tailer) Path() string { return t.path }

// Offset returns the byte offset already consumed.
func (t *Tailer) Offset() int64 { return t.offset }

// Records returns the extracted improvement records in parse order. The
// slice is append-only; callers must treat it as read-only.
func (t *Tailer) Records() []Record { return t.records }

// Rolling returns the last-known scalar metrics.
func (t *Tailer) Rolling() Rolling { return t.rolling }

// Poll reads the bytes appended since the previous poll and parses any
// complete lines they form. It reports whether at least one new record was
// extracted. A file that does not exist yet, or has nothing new, is not an
// error.
func (t *Tailer) Poll() (bool, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return false, err
	}
	if fi.Size() < t.offset {
		// The file shrank: rotated or truncated underneath us. Re-parse from
		// the start but keep the records already extracted.
		t.logger.Warn().
			Int64("offset", t.offset).
			Int64("size", fi.Size()).
			Msg("log file shrank, re-reading from start")
		t.offset = 0
		t.partial = ""
		t.pending = nil
	}
	if fi.Size() == t.offset {
		return false, nil
	}

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return false, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return false, err
	}
	t.offset += int64(len(data))
	if len(data) == 0 {
		return false, nil
	}

	before := len(t.records)

	content := t.partial + string(data)
	lines := strings.Split(content, "\n")
	if strings.HasSuffix(content, "\n") {
		t.partial = ""
	} else {
		t.partial = lines[len(lines)-1]
	}
	// Either way the final element is not a complete line yet.
	lines = lines[:len(lines)-1]

	for _, line := range lines {
		t.processLine(line)
	}

	return len(t.records) > before, nil
}

// Flush treats the buffered partial line as complete and finalizes any
// parameter scan still open. One-shot consumers call it after reading a file
// that will not grow further; the live monitor calls it on shutdown. It
// reports whether a new record was extracted.
func (t *Tailer) Flush() bool {
	before := len(t.records)
	if t.partial != "" {
		line := t.partial
		t.partial = ""
		t.processLine(line)
	}
	if t.pending != nil {
		t.finalizePending()
	}
	return len(t.records) > before
}

// processLine runs one complete line through the extractor. An open
// parameter scan consumes the line first; only a scan-terminating line falls
// through to the generation and marker checks, which are independent of each
// other.
func (t *Tailer) processLine(line string) {
	if t.pending != nil && t.feedPending(line) {
		return
	}

	if m := genPattern.FindStringSubmatch(line); m != nil {
		t.applyGeneration(m)
	}

	if markerPattern.MatchString(line) {
		t.pending = &paramScan{
			rolling: t.rolling.snapshot(),
			params:  make(map[string]float64),
		}
	}
}

// applyGeneration updates the rolling fields from a matched generation line.
// All numeric fields are parsed before any is assigned, so a malformed line
// never applies a partial update.
func (t *Tailer) applyGeneration(m []string) {
	gen, err := strconv.Atoi(m[1])
	if err != nil {
		t.logger.Debug().Str("token", m[1]).Msg("skipping generation line with bad counter")
		return
	}

	fields := make([]*float64, 0, 5)
	for _, tok := range m[2:] {
		if tok == "" {
			fields = append(fields, nil)
			continue
		}
		v, err := parseNumber(tok)
		if err != nil {
			t.logger.Debug().Str("token", tok).Msg("skipping generation line with bad number")
			return
		}
		fields = append(fields, &v)
	}

	t.rolling.Generation = gen
	t.rolling.Fitness = fields[0]
	t.rolling.Mean = fields[1]
	t.rolling.Variance = fields[2]
	t.rolling.P95 = fields[3]
	t.rolling.Max = fields[4]
}

// feedPending advances the open parameter scan with one line. It reports
// whether the line was consumed by the scan; a terminating line closes the
// scan and is left for normal processing.
func (t *Tailer) feedPending(line string) bool {
	p := t.pending
	if m := paramPattern.FindStringSubmatch(line); m != nil {
		if v, err := parseNumber(m[2]); err == nil {
			p.params[m[1]] = v
		} else {
			t.logger.Debug().Str("param", m[1]).Str("token", m[2]).Msg("skipping malformed parameter value")
		}
	} else if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, " ") {
		// Unindented, non-blank: start of unrelated log content.
		t.finalizePending()
		return false
	}

	p.scanned++
	if p.scanned >= paramScanWindow {
		t.finalizePending()
	}
	return true
}

// finalizePending closes the open scan, emitting a record if it captured at
// least one parameter. A bare marker with no parameter dump carries no
// actionable state and is dropped.
func (t *Tailer) finalizePending() {
	p := t.pending
	t.pending = nil
	if len(p.params) == 0 {
		return
	}
	t.records = append(t.records, Record{
		Generation: p.rolling.Generation,
		Fitness:    p.rolling.Fitness,
		Mean:       p.rolling.Mean,
		Variance:   p.rolling.Variance,
		P95:        p.rolling.P95,
		Max:        p.rolling.Max,
		Params:     p.params,
	})
}
