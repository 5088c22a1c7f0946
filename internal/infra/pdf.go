package infra

// pdf.go — purchase-order PDF generation using go-pdf/fpdf.
// Produces an A4 document with location header, order metadata, the item
// table (product, stock, weekly average, quantity in order units, line cost)
// and a total line. The output file is saved to storagePath/order_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"kitchenops/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateOrderPDF renders a purchase order for printing or emailing.
// storagePath is created if needed. Returns the absolute path of the file.
func GenerateOrderPDF(order *model.OrderRequest, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("order_%s.pdf", order.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Purchase Order", "", 1, "L", false, 0, "")

	locationName := ""
	if order.Location != nil {
		locationName = order.Location.Name
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, locationName, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Date: %s    Status: %s",
		order.RequestDate.Format("02/01/2006"), order.Status), "", 1, "L", false, 0, "")
	if order.DeliveryDay != nil {
		pdf.CellFormat(contentW, 6, "Delivery day: "+*order.DeliveryDay, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Item table ───────────────────────────────────────────────────────────
	colW := []float64{70, 22, 28, 22, 18, 20}
	headers := []string{"Product", "Stock", "Weekly avg", "Qty", "Unit", "Cost"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	total := decimal.Zero
	for _, item := range order.Items {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		qty := item.EffectiveQty()

		lineCost := ""
		if item.UnitCost != nil {
			// unit cost is per internal unit; one order unit = conversion factor units
			cost := item.UnitCost.Mul(item.ConversionFactor).Mul(decimal.NewFromInt(int64(qty)))
			total = total.Add(cost)
			lineCost = cost.StringFixed(2)
		}

		pdf.CellFormat(colW[0], 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 6, item.CurrentStock.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], 6, item.WeeklyAvgConsumption.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], 6, fmt.Sprintf("%d", qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 6, item.UnitOfOrder, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[5], 6, lineCost, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colW[0]+colW[1]+colW[2]+colW[3]+colW[4], 7, "Estimated total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colW[5], 7, total.StringFixed(2), "1", 1, "R", false, 0, "")

	if order.Notes != nil && *order.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+*order.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
