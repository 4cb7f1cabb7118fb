package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// orderExportRow flattens an order for spreadsheet export.
type orderExportRow struct {
	ID        string  `csv:"id"`
	Customer  string  `csv:"customer"`
	Phone     string  `csv:"phone"`
	Type      string  `csv:"type"`
	Items     int     `csv:"items"`
	Total     float64 `csv:"total"`
	Status    string  `csv:"status"`
	CreatedAt string  `csv:"created_at"`
}

func (a *Console) exportRows(ctx context.Context) []orderExportRow {
	orders := a.store.GetOrders(ctx)
	rows := make([]orderExportRow, 0, len(orders))
	for _, o := range orders {
		itemCount := 0
		for _, item := range o.Items {
			itemCount += item.Quantity
		}
		rows = append(rows, orderExportRow{
			ID:        o.ID,
			Customer:  o.User.Name,
			Phone:     o.User.Phone,
			Type:      string(o.Type),
			Items:     itemCount,
			Total:     o.Total,
			Status:    string(o.Status),
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows
}

// ExportOrdersCSV writes the full order log as CSV.
func (a *Console) ExportOrdersCSV(ctx context.Context, w io.Writer) error {
	rows := a.exportRows(ctx)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "export orders csv")
	}
	return nil
}

// ExportOrdersXLSX writes the full order log as an xlsx workbook.
func (a *Console) ExportOrdersXLSX(ctx context.Context, w io.Writer) error {
	rows := a.exportRows(ctx)

	xlsx := excelize.NewFile()
	const sheet = "Sheet1"
	headers := []string{"ID", "Customer", "Phone", "Type", "Items", "Total", "Status", "Created At"}
	for i, h := range headers {
		xlsx.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, row := range rows {
		line := i + 2
		xlsx.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.ID)
		xlsx.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.Customer)
		xlsx.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.Phone)
		xlsx.SetCellValue(sheet, fmt.Sprintf("D%d", line), row.Type)
		xlsx.SetCellValue(sheet, fmt.Sprintf("E%d", line), row.Items)
		xlsx.SetCellValue(sheet, fmt.Sprintf("F%d", line), row.Total)
		xlsx.SetCellValue(sheet, fmt.Sprintf("G%d", line), row.Status)
		xlsx.SetCellValue(sheet, fmt.Sprintf("H%d", line), row.CreatedAt)
	}
	if err := xlsx.Write(w); err != nil {
		return errors.Wrap(err, "export orders xlsx")
	}
	return nil
}
