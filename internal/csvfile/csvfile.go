// Package csvfile reads the dashboard CSV exports: BOM-aware decoding,
// vendor prefix stripping, delimiter detection and header-keyed rows.
package csvfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Row is one CSV record keyed by header column name.
type Row map[string]string

// vendorPrefix matches the textual length annotation some exports carry
// before the real header line, e.g. "IMTString(1234): Data_Hora;...".
var vendorPrefix = regexp.MustCompile(`^IMTString\(\d+\):\s*`)

// ReadRows parses the export at path into header-keyed rows. An empty file
// yields an empty slice, not an error.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	decoder := unicode.UTF8BOM.NewDecoder()
	raw, err := io.ReadAll(transform.NewReader(f, decoder))
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}

	text := Clean(string(raw))
	if text == "" {
		return nil, nil
	}

	delimiter := DetectDelimiter(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Clean strips the vendor prefix and surrounding whitespace. The BOM is
// already handled by the decoder in ReadRows, but a stray one is dropped
// here too for callers feeding raw strings.
func Clean(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = vendorPrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DetectDelimiter picks ';' or ',' by counting occurrences in the first
// line. Semicolon wins ties, matching the dashboard's usual format.
func DetectDelimiter(text string) rune {
	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
	}
	if strings.Count(firstLine, ";") >= strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// FileType identifies which export a file is.
type FileType string

const (
	FileTypeSales    FileType = "sales"
	FileTypeCustomer FileType = "customer"
	FileTypeUnknown  FileType = "unknown"
)

// DetectFileType sniffs the header line for known column keywords.
// Any read failure reports unknown rather than an error.
func DetectFileType(path string) FileType {
	f, err := os.Open(path)
	if err != nil {
		return FileTypeUnknown
	}
	defer f.Close()

	scanner := bufio.NewScanner(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	if !scanner.Scan() {
		return FileTypeUnknown
	}
	firstLine := strings.ToLower(Clean(scanner.Text()))

	switch {
	case strings.Contains(firstLine, "data_hora") || strings.Contains(firstLine, "maquinas"):
		return FileTypeSales
	case strings.Contains(firstLine, "documento") || strings.Contains(firstLine, "saldo_carteira"):
		return FileTypeCustomer
	default:
		return FileTypeUnknown
	}
}
