package trace

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// DefaultMaxReferences bounds how many references a Loader keeps in memory.
const DefaultMaxReferences = 1 << 24

// A Loader reads reference traces. Each line holds a page number and an access
// kind separated by whitespace, for example "42 w".
type Loader struct {
	maxReferences int
}

// NewLoader creates a Loader with default limits.
func NewLoader() Loader {
	return Loader{maxReferences: DefaultMaxReferences}
}

// WithMaxReferences sets the largest trace the loader accepts.
func (l Loader) WithMaxReferences(n int) Loader {
	l.maxReferences = n
	return l
}

// Load reads the trace stored at path. Files ending in .lz4 are read as LZ4
// frames and files ending in .sz or .snappy as snappy streams.
//
// The file is read twice. The first pass counts the references so that the
// sequence can be sized up front, the second pass parses them.
func (l Loader) Load(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	defer f.Close()

	return l.load(path, f)
}

// load runs both passes over f. A second pass that disagrees with the first
// means the content changed in between.
func (l Loader) load(path string, f io.ReadSeeker) (Sequence, error) {
	counted, err := countLines(decompress(path, f))
	if err != nil {
		return nil, ioError(path, err)
	}

	if err := l.mustFit(path, counted); err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, ioError(path, err)
	}

	seq, err := l.parse(decompress(path, f), path, counted)
	if err != nil {
		return nil, err
	}

	if len(seq) != counted {
		return nil, &LoadError{
			Code: ErrCodeLineCountMismatch,
			Path: path,
			Message: fmt.Sprintf(
				"counted %d references but parsed %d", counted, len(seq)),
		}
	}

	slog.Debug("trace loaded",
		"path", path, "references", len(seq), "pages", seq.DistinctPages())

	return seq, nil
}

// Parse reads a trace from r in a single pass. The name is only used in error
// messages.
func (l Loader) Parse(r io.Reader, name string) (Sequence, error) {
	return l.parse(r, name, 0)
}

func (l Loader) parse(r io.Reader, name string, sizeHint int) (Sequence, error) {
	seq := make(Sequence, 0, sizeHint)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		ref, err := parseFields(fields)
		if err != nil {
			return nil, malformedLine(name, lineNo, text, err)
		}

		seq = append(seq, ref)
		if err := l.mustFit(name, len(seq)); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, ioError(name, err)
	}

	if len(seq) == 0 {
		return nil, &LoadError{
			Code:    ErrCodeEmptyInput,
			Path:    name,
			Message: "trace holds no references",
		}
	}

	return seq, nil
}

func (l Loader) mustFit(name string, n int) error {
	if l.maxReferences > 0 && n > l.maxReferences {
		return &LoadError{
			Code: ErrCodeAllocation,
			Path: name,
			Message: fmt.Sprintf(
				"trace holds more than %d references", l.maxReferences),
		}
	}

	return nil
}

func parseFields(fields []string) (PageReference, error) {
	if len(fields) != 2 {
		return PageReference{}, fmt.Errorf("got %d fields", len(fields))
	}

	page, err := strconv.Atoi(fields[0])
	if err != nil {
		return PageReference{}, err
	}

	kind, err := ParseAccessKind(fields[1])
	if err != nil {
		return PageReference{}, err
	}

	return NewReference(page, kind), nil
}

func countLines(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}

	return count, scanner.Err()
}

func decompress(path string, r io.Reader) io.Reader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return lz4.NewReader(r)
	case ".sz", ".snappy":
		return snappy.NewReader(r)
	default:
		return r
	}
}
