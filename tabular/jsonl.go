package tabular

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
)

// maxLineSize is the default per-line buffer limit for the JSONL scanner
const maxLineSize = 1024 * 1024

// A Field declares one column to extract from each JSONL record
type Field struct {
	Name string     // output column name
	Path string     // gjson path within the record; defaults to Name
	Kind ColumnKind // value type of the resulting column
}

// ParserConf configures JSONL parsing
type ParserConf struct {
	Fields      []Field  // columns to extract; required
	IndexField  string   // optional gjson path providing the row index
	Categories  []string // declared category order applied to every string column
	MaxLineSize int      // maximum size of a single record in bytes. Defaults to 1 MiB.
}

// ReadJSONL parses line-delimited JSON from r into a Table, one row per
// non-empty line. Missing string fields become empty strings, missing
// numeric fields become zero.
func ReadJSONL(r io.Reader, conf *ParserConf) (*Table, error) {
	if conf == nil || len(conf.Fields) == 0 {
		return nil, errors.ParameterError{Msg: "jsonl parsing requires at least one field"}
	}
	lineSize := conf.MaxLineSize
	if lineSize < 1 {
		lineSize = maxLineSize
	}
	floats := make([][]float64, len(conf.Fields))
	strs := make([][]string, len(conf.Fields))
	var idxValues []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), lineSize)
	rows := 0
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if !gjson.Valid(line) {
			return nil, errors.ParameterError{Msg: fmt.Sprintf("record %d is not valid json", rows)}
		}
		for i, f := range conf.Fields {
			path := f.Path
			if path == "" {
				path = f.Name
			}
			result := gjson.Get(line, path)
			if f.Kind == FloatColumn {
				floats[i] = append(floats[i], result.Float())
			} else {
				strs[i] = append(strs[i], result.String())
			}
		}
		if conf.IndexField != "" {
			idxValues = append(idxValues, gjson.Get(line, conf.IndexField).String())
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	t := CreateTable(rows)
	for i, f := range conf.Fields {
		var err error
		if f.Kind == FloatColumn {
			err = t.AddFloatColumn(f.Name, floats[i])
		} else {
			err = t.AddStringColumn(f.Name, strs[i], conf.Categories)
		}
		if err != nil {
			return nil, err
		}
	}
	if conf.IndexField != "" {
		idx, err := newStringIndex(idxValues, conf.IndexField)
		if err != nil {
			return nil, err
		}
		if err = t.SetIndex(idx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func newStringIndex(values []string, name string) (sparsity.Index, error) {
	return index.Create(sparsity.Strings(values), name)
}

// ReadJSONLFile parses a JSONL file from disk into a Table
func ReadJSONLFile(path string, conf *ParserConf) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSONL(f, conf)
}
