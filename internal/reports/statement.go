// Package reports renders group statements as PDF documents.
package reports

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/tabmate/tabmate/internal/calculator"
	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
	"github.com/tabmate/tabmate/internal/service"
	"github.com/tabmate/tabmate/internal/storage"
)

// Generator builds group statement PDFs from the ledger.
type Generator struct {
	store  storage.Store
	ledger *service.LedgerService
}

// NewGenerator creates a Generator.
func NewGenerator(store storage.Store, ledger *service.LedgerService) *Generator {
	return &Generator{store: store, ledger: ledger}
}

// GroupStatement renders the full statement for a group: current
// balances, suggested settlements, and the expense and settlement
// history. Returns the PDF bytes and a suggested filename.
func (g *Generator) GroupStatement(ctx context.Context, groupID, actorID string) ([]byte, string, error) {
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	if !group.HasMember(actorID) {
		return nil, "", models.NewAuthorization("you must be a group member to download the statement")
	}

	balances, err := g.ledger.GroupBalances(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	suggestions, err := g.ledger.SuggestSettlements(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	expenses, err := g.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	settlements, err := g.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, "", err
	}

	names := make(map[string]string, len(balances))
	for _, b := range balances {
		names[b.UserID] = b.Name
	}
	name := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return shortID(id)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Group Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Group: "+group.Name)
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated: "+time.Now().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)

	g.balancesSection(pdf, balances)
	g.suggestionsSection(pdf, suggestions, name)
	g.expensesSection(pdf, expenses, name)
	g.settlementsSection(pdf, settlements, name)

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by Tabmate", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := "statement-" + sanitize(group.Name) + "-" + time.Now().Format("2006-01-02") + ".pdf"
	return buf.Bytes(), filename, nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, label, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
}

// pageBreak starts a new page when the cursor runs past the body area
// and repeats the table header.
func pageBreak(pdf *gofpdf.Fpdf, widths []float64, labels []string) {
	if pdf.GetY() > 270 {
		pdf.AddPage()
		tableHeader(pdf, widths, labels)
	}
}

func (g *Generator) balancesSection(pdf *gofpdf.Fpdf, balances []service.MemberBalance) {
	sectionHeader(pdf, "Balances")
	widths := []float64{120, 62}
	labels := []string{"MEMBER", "BALANCE"}
	tableHeader(pdf, widths, labels)
	for _, b := range balances {
		pageBreak(pdf, widths, labels)
		pdf.CellFormat(widths[0], 8, trimTo(b.Name, 70), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, money.Format(b.Balance), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (g *Generator) suggestionsSection(pdf *gofpdf.Fpdf, suggestions []calculator.Suggestion, name func(string) string) {
	sectionHeader(pdf, "Suggested Settlements")
	if len(suggestions) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 8, "All settled up.")
		pdf.Ln(12)
		return
	}
	widths := []float64{70, 70, 42}
	labels := []string{"FROM", "TO", "AMOUNT"}
	tableHeader(pdf, widths, labels)
	for _, s := range suggestions {
		pageBreak(pdf, widths, labels)
		pdf.CellFormat(widths[0], 8, trimTo(name(s.From), 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, trimTo(name(s.To), 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, money.Format(s.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (g *Generator) expensesSection(pdf *gofpdf.Fpdf, expenses []*models.Expense, name func(string) string) {
	sectionHeader(pdf, "Expenses")
	widths := []float64{26, 86, 40, 30}
	labels := []string{"DATE", "DESCRIPTION", "PAID BY", "AMOUNT"}
	tableHeader(pdf, widths, labels)
	for _, e := range expenses {
		pageBreak(pdf, widths, labels)
		pdf.CellFormat(widths[0], 8, time.Unix(e.CreatedAt, 0).Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 8, trimTo(e.Description, 52), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, trimTo(name(e.PayerID), 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, money.Format(e.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (g *Generator) settlementsSection(pdf *gofpdf.Fpdf, settlements []*models.Settlement, name func(string) string) {
	sectionHeader(pdf, "Settlements")
	widths := []float64{26, 56, 56, 26, 18}
	labels := []string{"DATE", "FROM", "TO", "AMOUNT", "PARTIAL"}
	tableHeader(pdf, widths, labels)
	for _, s := range settlements {
		pageBreak(pdf, widths, labels)
		partial := ""
		if s.IsPartial {
			partial = "yes"
		}
		pdf.CellFormat(widths[0], 8, time.Unix(s.CreatedAt, 0).Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 8, trimTo(name(s.FromUserID), 32), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, trimTo(name(s.ToUserID), 32), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, money.Format(s.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 8, partial, "1", 1, "C", false, 0, "")
	}
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "..."
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "group"
	}
	return b.String()
}
