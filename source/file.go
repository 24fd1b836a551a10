// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package source provides the two raw table producers: the file loader
// and the synthetic trajectory generator.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/sirupsen/logrus"

	"trackboard/tabular"
)

// ErrParseFailure is returned when an uploaded file cannot be read into a
// raw table.
var ErrParseFailure = fmt.Errorf("file parse failure")

// FileType represents the type of data file.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeParquet
	FileTypeJSON
)

// DetectFileType determines the type of file based on extension.
func DetectFileType(filePath string) FileType {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv", ".txt":
		return FileTypeCSV
	case ".parquet":
		return FileTypeParquet
	case ".json":
		return FileTypeJSON
	default:
		return FileTypeUnknown
	}
}

// FileLoader parses uploaded files into raw tables and caches the most
// recent result for re-mapping when the column selection changes.
type FileLoader struct {
	table *tabular.Table
	path  string
	log   *logrus.Entry
}

// NewFileLoader creates an empty loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{log: logrus.WithField("component", "fileloader")}
}

// Table returns the most recently loaded raw table, or nil.
func (l *FileLoader) Table() *tabular.Table {
	return l.table
}

// Path returns the path of the most recently loaded file.
func (l *FileLoader) Path() string {
	return l.path
}

// Load parses the file at path into a raw table. An empty path means no
// file has been selected and yields (nil, nil) rather than an error.
func (l *FileLoader) Load(path string) (*tabular.Table, error) {
	if path == "" {
		return nil, nil
	}

	var (
		t   *tabular.Table
		err error
	)
	switch DetectFileType(path) {
	case FileTypeCSV:
		t, err = loadCSV(path)
	case FileTypeParquet:
		t, err = loadParquet(path)
	case FileTypeJSON:
		t, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrParseFailure, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	l.table = t
	l.path = path
	l.log.WithFields(logrus.Fields{
		"path": filepath.Base(path),
		"rows": t.NumRows(),
		"cols": t.NumCols(),
	}).Info("file loaded")
	return t, nil
}

// detectCSVSeparator tries to detect the CSV separator from the first line.
func detectCSVSeparator(filePath string) (rune, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return ',', fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		// Empty file or error, use default comma
		return ',', nil
	}

	firstLine := scanner.Text()
	if firstLine == "" {
		return ',', nil
	}

	// Count occurrences of common separators
	separators := map[rune]int{
		',':  strings.Count(firstLine, ","),
		';':  strings.Count(firstLine, ";"),
		'\t': strings.Count(firstLine, "\t"),
		'|':  strings.Count(firstLine, "|"),
	}

	// Find the separator with the highest count
	maxCount := 0
	detectedSep := ','
	for sep, count := range separators {
		if count > maxCount {
			maxCount = count
			detectedSep = sep
		}
	}

	if maxCount == 0 {
		return ',', nil
	}

	return detectedSep, nil
}

// loadCSV loads a CSV file using the Arrow inferring reader. A header row
// is required; the separator is sniffed from it.
func loadCSV(filePath string) (*tabular.Table, error) {
	separator, err := detectCSVSeparator(filePath)
	if err != nil {
		separator = ','
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	defer f.Close()

	reader := arrowcsv.NewInferringReader(f,
		arrowcsv.WithHeader(true),
		arrowcsv.WithComma(separator),
		arrowcsv.WithChunk(1024),
	)
	defer reader.Release()

	var t *tabular.Table
	for reader.Next() {
		rec := reader.Record()
		if t == nil {
			t = tabular.NewTable(fieldNames(rec.Schema()))
		}
		appendRecord(t, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, tabular.ErrEmptyData)
	}
	return t, nil
}

// loadParquet loads a Parquet file and converts it to a raw table.
func loadParquet(filePath string) (*tabular.Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create parquet reader: %v", ErrParseFailure, err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create arrow reader: %v", ErrParseFailure, err)
	}

	ctx, cancel := createReadContext(0)
	defer cancel()

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read parquet data: %v", ErrParseFailure, err)
	}
	defer table.Release()

	t := tabular.NewTable(fieldNames(table.Schema()))
	tr := array.NewTableReader(table, 1024)
	defer tr.Release()
	for tr.Next() {
		appendRecord(t, tr.Record())
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return t, nil
}

// loadJSON loads a JSON array-of-objects file.
func loadJSON(filePath string) (*tabular.Table, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	var data []map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		// Try as single object
		var singleObj map[string]interface{}
		if err := json.Unmarshal(content, &singleObj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		data = []map[string]interface{}{singleObj}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, tabular.ErrEmptyData)
	}

	// Column order: keys of the first record, sorted, then later-appearing
	// keys appended in encounter order.
	cols := make([]string, 0, len(data[0]))
	seen := make(map[string]bool, len(data[0]))
	for k := range data[0] {
		cols = append(cols, k)
		seen[k] = true
	}
	sort.Strings(cols)
	for _, rec := range data[1:] {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}

	t := tabular.NewTable(cols)
	for _, rec := range data {
		row := make(tabular.Row, len(cols))
		for _, c := range cols {
			raw, ok := rec[c]
			if !ok {
				row[c] = tabular.NewNullValue(tabular.TypeString)
				continue
			}
			switch v := raw.(type) {
			case float64:
				row[c] = tabular.NewValue(v, tabular.TypeFloat)
			case bool:
				row[c] = tabular.NewValue(v, tabular.TypeBool)
			case string:
				row[c] = tabular.NewValue(v, tabular.TypeString)
			case nil:
				row[c] = tabular.NewNullValue(tabular.TypeString)
			default:
				row[c] = tabular.NewValue(fmt.Sprintf("%v", v), tabular.TypeString)
			}
		}
		t.AppendRow(row)
	}
	return t, nil
}

func fieldNames(schema *arrow.Schema) []string {
	names := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		names[i] = field.Name
	}
	return names
}

// appendRecord converts one Arrow record batch into table rows.
func appendRecord(t *tabular.Table, rec arrow.Record) {
	names := fieldNames(rec.Schema())
	numRows := int(rec.NumRows())
	for rowIdx := 0; rowIdx < numRows; rowIdx++ {
		row := make(tabular.Row, len(names))
		for colIdx, col := range rec.Columns() {
			row[names[colIdx]] = cellValue(col, rowIdx)
		}
		t.AppendRow(row)
	}
}

// cellValue converts an Arrow column value at a specific position to a
// typed cell.
func cellValue(col arrow.Array, pos int) tabular.Value {
	if col.IsNull(pos) {
		return tabular.NewNullValue(tabular.TypeString)
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		s := col.(*array.String)
		return tabular.NewValue(s.Value(pos), tabular.TypeString)

	case arrow.LARGE_STRING:
		s := col.(*array.LargeString)
		return tabular.NewValue(s.Value(pos), tabular.TypeString)

	case arrow.BOOL:
		b := col.(*array.Boolean)
		return tabular.NewValue(b.Value(pos), tabular.TypeBool)

	case arrow.INT8:
		i8 := col.(*array.Int8)
		return tabular.NewValue(int64(i8.Value(pos)), tabular.TypeInt)

	case arrow.INT16:
		i16 := col.(*array.Int16)
		return tabular.NewValue(int64(i16.Value(pos)), tabular.TypeInt)

	case arrow.INT32:
		i32 := col.(*array.Int32)
		return tabular.NewValue(int64(i32.Value(pos)), tabular.TypeInt)

	case arrow.INT64:
		i64 := col.(*array.Int64)
		return tabular.NewValue(i64.Value(pos), tabular.TypeInt)

	case arrow.UINT8:
		u8 := col.(*array.Uint8)
		return tabular.NewValue(int64(u8.Value(pos)), tabular.TypeInt)

	case arrow.UINT16:
		u16 := col.(*array.Uint16)
		return tabular.NewValue(int64(u16.Value(pos)), tabular.TypeInt)

	case arrow.UINT32:
		u32 := col.(*array.Uint32)
		return tabular.NewValue(int64(u32.Value(pos)), tabular.TypeInt)

	case arrow.UINT64:
		u64 := col.(*array.Uint64)
		return tabular.NewValue(int64(u64.Value(pos)), tabular.TypeInt)

	case arrow.FLOAT32:
		f32 := col.(*array.Float32)
		return tabular.NewValue(float64(f32.Value(pos)), tabular.TypeFloat)

	case arrow.FLOAT64:
		f64 := col.(*array.Float64)
		return tabular.NewValue(f64.Value(pos), tabular.TypeFloat)

	case arrow.TIMESTAMP:
		ts := col.(*array.Timestamp)
		return tabular.NewValue(ts.Value(pos).ToTime(arrow.Nanosecond), tabular.TypeTimestamp)

	case arrow.DATE32:
		d32 := col.(*array.Date32)
		return tabular.NewValue(d32.Value(pos).ToTime(), tabular.TypeTimestamp)

	case arrow.DATE64:
		d64 := col.(*array.Date64)
		return tabular.NewValue(d64.Value(pos).ToTime(), tabular.TypeTimestamp)

	default:
		return tabular.NewValue(fmt.Sprintf("%v", col.ValueStr(pos)), tabular.TypeString)
	}
}
