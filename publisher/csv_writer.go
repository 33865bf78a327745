// publisher/csv_writer.go
package publisher

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/clearglobal/hdx-scraper/models"
)

// WriteRows writes a header line followed by one line per row, columns in
// headers order. Missing fields are empty.
func WriteRows(w io.Writer, headers []string, rows []models.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(headers))
	for i, row := range rows {
		for j, h := range headers {
			cell, err := renderCell(row.Values[h])
			if err != nil {
				return fmt.Errorf("row %d field %s: %w", i, h, err)
			}
			record[j] = cell
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderCell(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
