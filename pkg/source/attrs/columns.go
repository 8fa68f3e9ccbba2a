package attrs

import (
	"strings"

	"github.com/matzehuels/censusdots/pkg/errors"
	"github.com/matzehuels/censusdots/pkg/tract"
)

// selection maps kept columns to their source positions.
type selection struct {
	names   []string
	index   []int  // source index of names[i]
	numeric []bool // names[i] is coerced to a number
	key     int    // position of the key column within names
}

// locate returns the single source index of name.
func locate(header []string, name, role string) (int, error) {
	idx := -1
	for i, h := range header {
		if h != name {
			continue
		}
		if idx >= 0 {
			return 0, errors.New(errors.ErrCodeDuplicateColumn, "%s column %q appears more than once", role, name)
		}
		idx = i
	}
	if idx < 0 {
		return 0, errors.New(errors.ErrCodeMissingColumn, "%s column %q not found", role, name)
	}
	return idx, nil
}

// selectColumns keeps header[:start+1] and header[total:], then marks every
// kept column after the count-start marker as numeric.
func selectColumns(header []string, opts Options) (*selection, error) {
	header = trimBOM(header)

	start, err := locate(header, opts.StartColumn, "start")
	if err != nil {
		return nil, err
	}
	total, err := locate(header, opts.TotalColumn, "total")
	if err != nil {
		return nil, err
	}

	s := &selection{key: -1}
	keep := func(i int) {
		s.names = append(s.names, header[i])
		s.index = append(s.index, i)
	}
	for i := 0; i <= start; i++ {
		keep(i)
	}
	for i := max(total, start+1); i < len(header); i++ {
		keep(i)
	}

	countStart, err := locate(s.names, opts.CountStartColumn, "count-start")
	if err != nil {
		return nil, err
	}
	key, err := locate(s.names, opts.KeyColumn, "key")
	if err != nil {
		return nil, err
	}
	s.key = key

	s.numeric = make([]bool, len(s.names))
	for i := countStart + 1; i < len(s.names); i++ {
		s.numeric[i] = true
	}
	return s, nil
}

func (s *selection) numericNames() []string {
	var out []string
	for i, name := range s.names {
		if s.numeric[i] {
			out = append(out, name)
		}
	}
	return out
}

// record builds an AttributeRecord from a raw row. Short rows read as
// missing cells.
func (s *selection) record(row []string, stats *Stats) tract.AttributeRecord {
	rec := tract.AttributeRecord{
		Values: make(map[string]string, len(s.names)),
		Counts: make(map[string]tract.Count),
	}
	for i, name := range s.names {
		var cell string
		if src := s.index[i]; src < len(row) {
			cell = row[src]
		}
		rec.Values[name] = cell
		if s.numeric[i] {
			c := tract.ParseCount(cell)
			if !c.Valid {
				stats.MissingCells++
			}
			rec.Counts[name] = c
		}
	}

	rec.Key, rec.KeyValid = tract.ParseKey(rec.Values[s.names[s.key]])
	if !rec.KeyValid {
		stats.InvalidKeys++
	}
	return rec
}

// trimBOM strips a UTF-8 byte order mark from the first header cell.
func trimBOM(header []string) []string {
	if len(header) == 0 || !strings.HasPrefix(header[0], "\ufeff") {
		return header
	}
	out := append([]string(nil), header...)
	out[0] = strings.TrimPrefix(out[0], "\ufeff")
	return out
}
