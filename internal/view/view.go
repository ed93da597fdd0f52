// Package view — текстовые отчёты для CLI (балансы, PnL).
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"breakout_bot/internal/models"
	"breakout_bot/internal/pnl"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	profitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Balances — free/locked по активам и открытые ордера символа.
func Balances(symbol string, balances []models.Balance, orders []models.OpenOrder) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Balances"))
	b.WriteString("\n")
	bt := newTable("Asset", "Free", "Locked")
	for _, bal := range balances {
		bt.Row(bal.Asset, num(bal.Free), num(bal.Locked))
	}
	b.WriteString(bt.String())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Open orders " + symbol))
	b.WriteString("\n")
	if len(orders) == 0 {
		b.WriteString("none\n")
		return b.String()
	}
	ot := newTable("OrderID", "Side", "Type", "Trigger", "Qty", "Status")
	for _, o := range orders {
		ot.Row(strconv.FormatInt(o.OrderID, 10), string(o.Side), string(o.Type), num(o.TriggerPrice), num(o.OrigQty), o.Status)
	}
	b.WriteString(ot.String())
	b.WriteString("\n")
	return b.String()
}

// PnL — последние tail сделок и сводка.
func PnL(symbol, base string, s pnl.Summary, tail int) string {
	var b strings.Builder
	if s.Trades == 0 {
		return "No trades found.\n"
	}

	rows := s.Rows
	if tail > 0 && len(rows) > tail {
		rows = rows[len(rows)-tail:]
	}
	b.WriteString(titleStyle.Render("Trade history & PnL " + symbol))
	b.WriteString("\n")
	t := newTable("Time", "Type", "Price", "Quantity", "PnL", "Position")
	for _, r := range rows {
		t.Row(r.Time.UTC().Format("2006-01-02 15:04:05"), string(r.Side), num(r.Price), num(r.Quantity),
			fmt.Sprintf("%.6f", r.PnL), fmt.Sprintf("%.6f", r.Position))
	}
	b.WriteString(t.String())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Performance summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total Trades: %d\n", s.Trades)
	fmt.Fprintf(&b, "Closed Trades: %d\n", s.ClosedTrades)
	pnlText := fmt.Sprintf("%.2f", s.RealizedPnL)
	if s.RealizedPnL > 0 {
		pnlText = profitStyle.Render(pnlText)
	} else if s.RealizedPnL < 0 {
		pnlText = lossStyle.Render(pnlText)
	}
	fmt.Fprintf(&b, "Final Realized PnL: %s\n", pnlText)
	if s.ClosedTrades > 0 {
		fmt.Fprintf(&b, "Win Rate: %.1f%%\n", s.WinRate)
	}
	fmt.Fprintf(&b, "Current Position: %.6f %s\n", s.Position, base)
	return b.String()
}
