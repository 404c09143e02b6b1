package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a reader for an .xlsx or .csv file. sheet selects an
// Excel sheet; empty means the first sheet. It is ignored for CSV.
func NewDataReader(filePath, sheet string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		sheet:    sheet,
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// ReadData reads the file into a Table
func (r *DataReader) ReadData() (*Table, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows  [][]string
		sheet string
		err   error
	)
	start := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, sheet, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s must have a header row and at least one data row", r.filePath)
	}
	return r.buildTable(rows, sheet)
}

func (r *DataReader) readExcelRows() ([][]string, string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", fmt.Errorf("%s has no sheets", r.filePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, sheet, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// buildTable trims headers and pads every data row to the header width
func (r *DataReader) buildTable(rows [][]string, sheet string) (*Table, error) {
	headers := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(headers))
	for i, header := range rows[0] {
		name := strings.TrimSpace(header)
		if name == "" {
			return nil, fmt.Errorf("%s: header %s is empty", r.filePath, cellName(i, 0))
		}
		if seen[name] {
			return nil, fmt.Errorf("%s: duplicate column %q", r.filePath, name)
		}
		seen[name] = true
		headers[i] = name
	}

	data := make([][]string, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make([]string, len(headers))
		for j := 0; j < len(raw) && j < len(headers); j++ {
			row[j] = strings.TrimSpace(raw[j])
		}
		data = append(data, row)
	}

	r.logger.Debug("%s processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(data))
	return &Table{Source: r.filePath, Sheet: sheet, Headers: headers, Rows: data}, nil
}
