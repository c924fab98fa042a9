// Package report renders downloadable PDF documents from already-fetched
// entities. Rendering is a pure function of its input: no persistence, no
// side effects beyond the produced document.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"gandalf/internal/domain"
)

const dateLayout = "02 Jan 2006 15:04"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// RenderInvoice produces Invoice_<orderId>.pdf. Optional fields render as
// N/A; a missing timestamp never fails generation.
func (g *Generator) RenderInvoice(order domain.Order) ([]byte, string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	writeKeyValue(pdf, "Order ID", order.ID.Hex())
	writeKeyValue(pdf, "Order Date", order.CreatedAt.Format(dateLayout))
	writeKeyValue(pdf, "Order Status", string(order.Status))
	writeKeyValue(pdf, "Shipped At", formatOptionalTime(order.ShippedAt))
	writeKeyValue(pdf, "Delivered At", formatOptionalTime(order.DeliveredAt))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Billed To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeKeyValue(pdf, "Name", orNA(order.Customer.FullName))
	writeKeyValue(pdf, "Email", orNA(order.Customer.Email))
	writeKeyValue(pdf, "Address", formatShipping(order.Shipping))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 8, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(80, 8, orNA(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", item.Subtotal()), "1", 1, "R", false, 0, "")
	}

	if order.Discount != nil && order.Discount.Amount > 0 {
		label := "Discount"
		if order.Discount.Code != "" {
			label = fmt.Sprintf("Discount (%s)", order.Discount.Code)
		}
		pdf.CellFormat(145, 8, label, "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("-%.2f", order.Discount.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(145, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", order.TotalAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	writeKeyValue(pdf, "Payment Method", orNA(order.Payment.Method))
	writeKeyValue(pdf, "Payment Status", string(order.Payment.Status))
	writeKeyValue(pdf, "Transaction ID", orNA(order.Payment.TransactionID))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("rendering invoice: %w", err)
	}

	return buf.Bytes(), fmt.Sprintf("Invoice_%s.pdf", order.ID.Hex()), nil
}

// RenderUserList produces User_List_Report.pdf with one row per user.
func (g *Generator) RenderUserList(users []domain.User) ([]byte, string, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "User List Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format(dateLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{60, 45, 75, 25, 45, 30}
	headers := []string{"Full Name", "Username", "Email", "Role", "Created Date", "Addresses Count"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, u := range users {
		pdf.CellFormat(widths[0], 8, orNA(u.FullName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, orNA(u.Username), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, orNA(u.Email), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, capitalize(string(u.Role)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 8, u.CreatedAt.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 8, fmt.Sprintf("%d", len(u.Addresses)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("rendering user list report: %w", err)
	}

	return buf.Bytes(), "User_List_Report.pdf", nil
}

func writeKeyValue(pdf *fpdf.Fpdf, key, value string) {
	pdf.CellFormat(40, 6, key+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(dateLayout)
}

func formatShipping(s domain.ShippingDetails) string {
	parts := []string{}
	for _, part := range []string{s.Address, s.City, s.State, s.PostalCode, s.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return "N/A"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
