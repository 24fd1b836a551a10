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

package windows

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"trackboard/tabular"
)

// ExportFormat represents the supported export formats
type ExportFormat int

const (
	FormatParquet ExportFormat = iota
	FormatCSV
	FormatJSON
)

// canonicalArrowSchema is the fixed schema of exported canonical tables.
var canonicalArrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "ID", Type: arrow.BinaryTypes.String},
	{Name: "TIME", Type: arrow.PrimitiveTypes.Float64},
	{Name: "MEAS", Type: arrow.PrimitiveTypes.Float64},
	{Name: "FOV", Type: arrow.BinaryTypes.String},
}, nil)

// canonicalToArrow builds an Arrow table from a canonical table.
// The caller must Release the result.
func canonicalToArrow(ct *tabular.CanonicalTable) arrow.Table {
	pool := memory.NewGoAllocator()

	idB := array.NewStringBuilder(pool)
	defer idB.Release()
	timeB := array.NewFloat64Builder(pool)
	defer timeB.Release()
	measB := array.NewFloat64Builder(pool)
	defer measB.Release()
	fovB := array.NewStringBuilder(pool)
	defer fovB.Release()

	for _, r := range ct.Rows {
		idB.Append(r.ID)
		timeB.Append(r.Time)
		measB.Append(r.Meas)
		fovB.Append(r.FOV)
	}

	cols := make([]arrow.Column, 0, 4)
	for i, b := range []array.Builder{idB, timeB, measB, fovB} {
		arr := b.NewArray()
		defer arr.Release()
		chunked := arrow.NewChunked(canonicalArrowSchema.Field(i).Type, []arrow.Array{arr})
		cols = append(cols, *arrow.NewColumn(canonicalArrowSchema.Field(i), chunked))
	}
	return array.NewTable(canonicalArrowSchema, cols, int64(ct.NumRows()))
}

// ExportToParquet exports the canonical table to a Parquet file
func ExportToParquet(ct *tabular.CanonicalTable, filePath string) error {
	table := canonicalToArrow(ct)
	defer table.Release()

	// Create the output file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	// Create Parquet writer properties
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// Create a Parquet file writer
	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	defer writer.Close()

	// Write the table
	err = writer.WriteTable(table, table.NumRows())
	if err != nil {
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}

	return nil
}

// ExportToCSV exports the canonical table to a CSV file
func ExportToCSV(ct *tabular.CanonicalTable, filePath string) error {
	// Create the output file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"ID", "TIME", "MEAS", "FOV"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range ct.Rows {
		row := []string{
			r.ID,
			strconv.FormatFloat(r.Time, 'g', -1, 64),
			strconv.FormatFloat(r.Meas, 'g', -1, 64),
			r.FOV,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportToJSON exports the canonical table to a JSON file
func ExportToJSON(ct *tabular.CanonicalTable, filePath string) error {
	// Create the output file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	records := make([]map[string]interface{}, 0, ct.NumRows())
	for _, r := range ct.Rows {
		records = append(records, map[string]interface{}{
			"ID":   r.ID,
			"TIME": r.Time,
			"MEAS": r.Meas,
			"FOV":  r.FOV,
		})
	}

	// Encode to JSON with indentation
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// cleanFilename removes spaces and special characters from a filename.
func cleanFilename(name string) string {
	// Simple implementation - replace spaces with underscores
	result := ""
	for _, r := range name {
		if r == ' ' {
			result += "_"
		} else if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result += string(r)
		}
	}
	return result
}
