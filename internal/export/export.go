// Package export grava tabelas do painel em CSV e XLSX para download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	// DefaultSheet é o nome da aba usada pelo painel
	DefaultSheet = "Ads Data"

	columnWidth = 20
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat aceita "csv" ou "xlsx", vazio vira CSV.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", value)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName gera ads_data_YYYYMMDD_HHMMSS.<ext>
func FileName(now time.Time, format Format) string {
	return fmt.Sprintf("ads_data_%s.%s", now.Format("20060102_150405"), format)
}

// Write grava a tabela no formato pedido.
func Write(w io.Writer, format Format, table domain.Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, table)
	case FormatXLSX:
		return WriteXLSX(w, table, DefaultSheet)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func WriteCSV(w io.Writer, table domain.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Header); err != nil {
		return errors.Wrap(err, "export: write csv header")
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return errors.Wrap(err, "export: write csv rows")
	}

	return nil
}

// WriteXLSX usa o stream writer do excelize, a memória não cresce com o número de linhas.
func WriteXLSX(w io.Writer, table domain.Table, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "export: rename sheet")
	}

	stream, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrap(err, "export: open stream writer")
	}

	if len(table.Header) > 0 {
		if err := stream.SetColWidth(1, len(table.Header), columnWidth); err != nil {
			return errors.Wrap(err, "export: set column width")
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "export: create header style")
	}

	if err := stream.SetRow("A1", toCells(table.Header), excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return errors.Wrap(err, "export: write xlsx header")
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "export: cell name")
		}
		if err := stream.SetRow(cell, toCells(row)); err != nil {
			return errors.Wrapf(err, "export: write xlsx row %d", i+1)
		}
	}

	if err := stream.Flush(); err != nil {
		return errors.Wrap(err, "export: flush xlsx")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "export: write xlsx")
	}

	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return cells
}
