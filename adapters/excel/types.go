package excel

// Table is a rectangular sheet of raw cells with a header row
type Table struct {
	Source  string     // file path, for error messages
	Sheet   string     // sheet name; empty for CSV
	Headers []string   // trimmed header row
	Rows    [][]string // data rows, padded to len(Headers)
}
