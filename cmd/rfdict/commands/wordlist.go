package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sumatoshi-tech/rfdict/pkg/dict"
	"github.com/Sumatoshi-tech/rfdict/pkg/observability"
)

// stdinPath is the word-list argument that selects standard input.
const stdinPath = "-"

// Scanner sizing. Lines above the key limit but under maxLineSize still reach
// the dictionary, which rejects them with a per-line error instead of the
// scanner's generic one.
const (
	scanBufferSize = 64 * 1024
	maxLineSize    = 128 * 1024
)

// visibleLow and visibleHigh bound the visible ASCII range (space to tilde).
const (
	visibleLow  = 0x20
	visibleHigh = 0x7e
)

// trimLine strips leading and trailing bytes outside the visible ASCII range.
// Padding spaces are visible bytes and therefore key data; only controls and
// extended bytes are trimmed.
func trimLine(line string) string {
	start := 0
	for start < len(line) && (line[start] < visibleLow || line[start] > visibleHigh) {
		start++
	}

	end := len(line)
	for end > start && (line[end-1] < visibleLow || line[end-1] > visibleHigh) {
		end--
	}

	return line[start:end]
}

// ErrBadKey indicates a word-list line the dictionary rejected.
var ErrBadKey = errors.New("bad key")

// LoadResult summarizes a word-list load.
type LoadResult struct {
	// Inserted is the number of keys stored.
	Inserted int

	// Duplicates is the number of lines rejected as comparator-equal
	// to an earlier line.
	Duplicates int

	// Lines is the total number of lines read.
	Lines int
}

// LoadWordList reads one key per line and inserts each with its 1-based line
// number as the value. Lines are trimmed of non-visible bytes; lines that
// trim to empty are skipped but still consume their line number. Duplicate
// keys are counted, not treated as errors. Keys the dictionary rejects
// (oversized or untranslatable) abort the load with an error naming the
// offending line.
func LoadWordList(
	ctx context.Context,
	d *dict.Dict,
	reader io.Reader,
	translate bool,
	metrics *observability.DictMetrics,
) (LoadResult, error) {
	start := time.Now()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, scanBufferSize), maxLineSize)

	var result LoadResult

	for scanner.Scan() {
		result.Lines++

		key := trimLine(scanner.Text())
		if key == "" {
			continue
		}

		inserted, err := insertKey(d, key, int64(result.Lines), translate)
		if err != nil {
			return result, fmt.Errorf("line %d: %w", result.Lines, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Duplicates++
		}

		metrics.RecordInsert(ctx, d.Sensitive(), !inserted)
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		if errors.Is(scanErr, bufio.ErrTooLong) {
			return result, fmt.Errorf("line %d: %w: line exceeds %d bytes", result.Lines+1, ErrBadKey, maxLineSize)
		}

		return result, fmt.Errorf("read word list: %w", scanErr)
	}

	metrics.RecordLoad(ctx, time.Since(start))

	return result, nil
}

// insertKey converts the dictionary's contract panics into errors, since a
// malformed line in user input is not a programming error at this boundary.
func insertKey(d *dict.Dict, key string, value int64, translate bool) (inserted bool, err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("%w: %v", ErrBadKey, r)
		}
	}()

	return d.Insert(key, value, translate), nil
}

// openWordList opens the word-list source, mapping "-" to standard input.
// The returned closer is a no-op for stdin.
func openWordList(path string) (io.Reader, func() error, error) {
	if path == stdinPath {
		return os.Stdin, func() error { return nil }, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open word list: %w", err)
	}

	return file, file.Close, nil
}
