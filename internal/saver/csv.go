package saver

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"cn-data/internal/model"
)

var csvHeader = []string{"t", "k", "s", "e", "o", "h", "l", "c", "v", "oi", "a"}

// CSVSaver lưu packet dưới dạng CSV (header: t,k,s,e,o,h,l,c,v,oi,a).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write([]string{
			strconv.FormatUint(b.Timestamp, 10),
			b.Interval.String(),
			b.Symbol.String(),
			b.Exchange.String(),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
			floatStr(b.OpenInterest),
			floatStr(b.Amount),
		}); err != nil {
			return err
		}
	}
	return nil
}

// LoadCSV reads bars back from the CSVSaver layout. Overlong identifiers
// are kept as their 31-byte prefix, same as everywhere else in the
// pipeline.
func LoadCSV(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 || rows[0][0] != csvHeader[0] {
		return nil, fmt.Errorf("read %s: missing header", path)
	}

	bars := make([]model.Bar, 0, len(rows)-1)
	for i, row := range rows[1:] {
		b, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseCSVRow(row []string) (model.Bar, error) {
	var b model.Bar
	var err error

	if b.Timestamp, err = strconv.ParseUint(row[0], 10, 64); err != nil {
		return b, fmt.Errorf("timestamp: %w", err)
	}
	if b.Interval, err = model.ParseInterval(row[1]); err != nil {
		return b, err
	}
	b.Symbol, _ = model.NewIdent(row[2])
	b.Exchange, _ = model.NewIdent(row[3])

	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &b.Open}, {"high", &b.High}, {"low", &b.Low}, {"close", &b.Close},
		{"volume", &b.Volume}, {"open_interest", &b.OpenInterest}, {"amount", &b.Amount},
	}
	for i, fd := range fields {
		if *fd.dst, err = strconv.ParseFloat(row[4+i], 64); err != nil {
			return b, fmt.Errorf("%s: %w", fd.name, err)
		}
	}
	return b, nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
