package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/logging"

	"github.com/sirupsen/logrus"
)

// Source produces the raw measurement table for one report run.
type Source interface {
	Load(ctx context.Context) (*dataframe.RawTable, error)
}

type CSVSource struct {
	Patterns  []string
	Delimiter rune
	logger    *logrus.Logger
}

func NewCSVSource(patterns []string, delimiter rune, logger *logrus.Logger) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{
		Patterns:  patterns,
		Delimiter: delimiter,
		logger:    logger,
	}
}

// Load reads comma separated files matching patterns with the default logger.
func Load(patterns []string) (*dataframe.RawTable, error) {
	return NewCSVSource(patterns, ',', logging.GetLogger()).Load(context.Background())
}

// Load returns nothing unless every matched file is read successfully.
func (s *CSVSource) Load(ctx context.Context) (*dataframe.RawTable, error) {
	paths, err := ResolvePaths(s.Patterns)
	if err != nil {
		return nil, err
	}

	table := &dataframe.RawTable{}
	seenColumns := make(map[string]bool)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		header, records, err := s.readFile(path)
		if err != nil {
			s.logger.WithField("path", path).WithError(err).Error("Failed to load measurement file")
			return nil, err
		}

		for _, h := range header {
			if !seenColumns[h] {
				seenColumns[h] = true
				table.Header = append(table.Header, h)
			}
		}
		table.Records = append(table.Records, records...)

		s.logger.WithFields(logrus.Fields{
			"path": path,
			"rows": len(records),
		}).Debug("Loaded measurement file")
	}

	s.logger.WithFields(logrus.Fields{
		"files": len(paths),
		"rows":  len(table.Records),
	}).Info("Loaded measurements")

	return table, nil
}

func (s *CSVSource) readFile(path string) ([]string, []dataframe.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(f, path, s.Delimiter)
}

// ParseCSV reads a header row followed by data rows. Short rows are padded
// with empty cells and extra cells are dropped.
func ParseCSV(r io.Reader, name string, delimiter rune) ([]string, []dataframe.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rawHeader, err := reader.Read()
	if err == io.EOF {
		return nil, nil, &MalformedInputError{Path: name, Err: errors.New("file has no header row")}
	}
	if err != nil {
		return nil, nil, csvError(name, err)
	}

	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = CanonicalColumn(h)
	}

	if missing := ValidateHeader(header); len(missing) > 0 {
		return nil, nil, &MalformedInputError{Path: name, Missing: missing}
	}

	var records []dataframe.RawRecord
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, csvError(name, err)
		}

		line, _ := reader.FieldPos(0)
		record := dataframe.RawRecord{
			Source: name,
			Line:   line,
			Fields: make(map[string]string, len(header)),
		}
		for i, column := range header {
			if _, dup := record.Fields[column]; dup {
				continue
			}
			if i < len(cells) {
				record.Fields[column] = cells[i]
			} else {
				record.Fields[column] = ""
			}
		}
		records = append(records, record)
	}

	return header, records, nil
}

func csvError(name string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Path: name, Err: err}
	}
	return fmt.Errorf("failed to read %s: %w", name, err)
}

// ResolvePaths expands glob patterns and checks literal paths. Matches are
// returned in pattern order, each glob sorted, without duplicates.
func ResolvePaths(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			paths = append(paths, clean)
		}
	}

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		if !hasGlobMeta(pattern) {
			info, err := os.Stat(pattern)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, pattern)
				}
				return nil, fmt.Errorf("failed to stat %s: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, pattern)
			}
			add(pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				add(match)
			}
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing matched %s", ErrSourceNotFound, strings.Join(patterns, ", "))
	}

	return paths, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
