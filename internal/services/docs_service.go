package services

import (
	"bytes"
	"context"
	"fmt"

	"orderdesk/internal/domain"
	"orderdesk/internal/query"
	"orderdesk/internal/repositories"
	"orderdesk/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders customer-facing quote documents.
type DocsService struct {
	QuoteRepo repositories.ResourceRepository
	RequestID string
	Loader    func(ctx context.Context, quoteID string) (quoteDocData, error)
}

type quoteDocData struct {
	Quote    domain.Record
	Customer domain.Record
	Orders   []domain.Record
}

// GenerateQuote returns the quote PDF and its download filename.
func (s DocsService) GenerateQuote(ctx context.Context, quoteID string) ([]byte, string, error) {
	data, err := s.loadQuoteDocData(ctx, quoteID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_quote", "quote_id="+quoteID)
	return buildQuotePDF(data)
}

func (s DocsService) loadQuoteDocData(ctx context.Context, quoteID string) (quoteDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, quoteID)
	}
	c := query.Criteria{
		Where:   map[string]any{},
		Options: map[string]any{query.KeyInclude: []string{"customer", "orders"}},
	}
	rec, err := s.QuoteRepo.Get(ctx, quoteID, c)
	if err != nil {
		return quoteDocData{}, err
	}
	out := quoteDocData{Quote: rec}
	if cust, ok := rec["customer"].(domain.Record); ok {
		out.Customer = cust
	}
	if orders, ok := rec["orders"].([]domain.Record); ok {
		out.Orders = orders
	}
	return out, nil
}

func buildQuotePDF(d quoteDocData) ([]byte, string, error) {
	number := utils.Text(d.Quote["number"], "-")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quote "+number, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "QUOTE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Quote No     : " + number,
		"Status       : " + utils.Text(d.Quote["status"], "-"),
		"Valid until  : " + utils.Text(utils.FormatDate(d.Quote["valid_until"]), "-"),
		"Issued       : " + utils.FormatDateTime(utils.NowUTC()),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Customer:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	if d.Customer != nil {
		pdf.Cell(0, 7, "Name    : "+utils.Text(d.Customer["name"], "-"))
		pdf.Ln(7)
		pdf.Cell(0, 7, "Email   : "+utils.Text(d.Customer["email"], "-"))
		pdf.Ln(7)
		pdf.Cell(0, 7, "Phone   : "+utils.Text(d.Customer["phone"], "-"))
		pdf.Ln(7)
		pdf.MultiCell(0, 6, "Address : "+utils.Text(d.Customer["address"], "-"), "", "", false)
	} else {
		pdf.Cell(0, 7, "-")
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Scope:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, utils.Text(d.Quote["description"], "-"), "", "", false)
	pdf.Ln(4)

	if len(d.Orders) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Orders:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, o := range d.Orders {
			pdf.Cell(0, 6, fmt.Sprintf("%d) %s  status=%s  due=%s",
				i+1,
				utils.Text(o["number"], "-"),
				utils.Text(o["status"], "-"),
				utils.Text(utils.FormatDate(o["due_date"]), "-"),
			))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	amount, _ := utils.ToAmount(d.Quote["amount"])
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatMoney(amount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This quote is valid until the date shown above. Prices exclude taxes unless stated.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("QUOTE_%s.pdf", utils.SafeFilenamePart(number))
	return buf.Bytes(), filename, nil
}
