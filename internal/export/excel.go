package export

import (
	"fmt"
	"io"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{
	"Booking ID", "Customer ID", "Provider ID", "Service",
	"Scheduled", "Status", "Estimated Price", "Final Price",
	"Canceled By", "Cancellation Reason", "Created",
}

// WriteBookingsReport renders the bookings into an xlsx workbook and
// streams it to w. Used by the admin reports endpoint.
func WriteBookingsReport(w io.Writer, bookings []*models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, titleStyle)
	}

	for row, b := range bookings {
		values := []any{
			b.ID, b.CustomerID, b.ProviderID, b.ServiceType,
			b.DateTime.Format(time.RFC3339), b.Status, b.EstimatedPrice, b.FinalPrice,
			b.CanceledBy, b.CancellationReason, b.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "C", 38)
	_ = f.SetColWidth(sheetName, "D", "K", 22)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
