package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

var titleCaser = cases.Title(language.English)

type styles struct {
	Header   lipgloss.Style
	Income   lipgloss.Style
	Expense  lipgloss.Style
	Muted    lipgloss.Style
	Warn     lipgloss.Style
	Alert    lipgloss.Style
	Good     lipgloss.Style
	Box      lipgloss.Style
	BarWidth int
}

func defaultStyles() styles {
	return styles{
		Header:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Income:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		Expense:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
		Alert:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true),
		Good:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f")),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		BarWidth: 30,
	}
}

var st = defaultStyles()

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func typeLabel(t core.TransactionType) string {
	return titleCaser.String(string(t))
}

func signedAmount(t core.Transaction) string {
	if t.Type == core.Income {
		return st.Income.Render("+" + t.Amount.Display())
	}
	return st.Expense.Render("-" + t.Amount.Display())
}

func renderTransactions(rows []services.BalanceRow, label func(string) string) string {
	if len(rows) == 0 {
		return st.Muted.Render("No transactions yet.")
	}
	t := newTable("ID", "Date", "Type", "Category", "Amount", "Balance")
	for _, r := range rows {
		t.Row(r.ID, r.Date.String(), typeLabel(r.Type), label(r.Category), signedAmount(r.Transaction), r.Balance.Display())
	}
	return t.String()
}

func renderCategories(cats []core.Category, usage map[string]int) string {
	t := newTable("ID", "Category", "Transactions")
	for _, c := range cats {
		t.Row(c.ID, c.Label(), fmt.Sprint(usage[c.ID]))
	}
	return t.String()
}

func emiStatusText(s services.EmiStatus) string {
	switch s.Kind {
	case services.EmiPaid:
		return st.Good.Render(s.Kind.String())
	case services.EmiOverdue:
		return st.Alert.Render(fmt.Sprintf("%s by %d day(s)", s.Kind, -s.Days))
	case services.EmiDueSoon:
		if s.Days == 0 {
			return st.Warn.Render("Due today")
		}
		return st.Warn.Render(fmt.Sprintf("%s, in %d day(s)", s.Kind, s.Days))
	default:
		return fmt.Sprintf("%s, in %d day(s)", s.Kind, s.Days)
	}
}

func renderEmis(views []services.EmiView) string {
	if len(views) == 0 {
		return st.Muted.Render("No EMIs yet.")
	}
	t := newTable("ID", "Title", "Amount", "Due", "Status", "Paid on")
	for _, v := range views {
		t.Row(v.ID, v.Title, v.Amount.Display(), v.DueDate.String(), emiStatusText(v.Status), v.PaidDate.String())
	}
	return t.String()
}

func renderTemplates(tpls []core.RecurringTemplate, label func(string) string) string {
	if len(tpls) == 0 {
		return st.Muted.Render("No recurring transactions yet.")
	}
	t := newTable("ID", "Type", "Category", "Amount", "Every", "Since", "Last booked")
	for _, tpl := range tpls {
		t.Row(tpl.ID, typeLabel(tpl.Type), label(tpl.Category), tpl.Amount.Display(),
			string(tpl.Interval), tpl.StartDate.String(), tpl.LastGenerated.String())
	}
	return t.String()
}

func renderNetWorth(entries []core.NetWorthEntry, series []core.NetWorthPoint) string {
	if len(entries) == 0 {
		return st.Muted.Render("No net worth entries yet.")
	}
	t := newTable("ID", "Date", "Assets", "Liabilities", "Net")
	for _, e := range entries {
		t.Row(e.ID, e.Date.String(), e.Assets.Display(), e.Liab.Display(), e.Assets.Sub(e.Liab).Display())
	}
	var b strings.Builder
	b.WriteString(t.String())
	if len(series) > 0 {
		last := series[len(series)-1]
		fmt.Fprintf(&b, "\nNet worth on %s: %s", last.Date, last.Net.Display())
	}
	return b.String()
}

func renderMonthly(k core.MonthKey, totals core.Totals, top []core.CategoryAmount, label func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.Header.Render(k.String()))
	fmt.Fprintf(&b, "Income:  %s\n", st.Income.Render(totals.Income.Display()))
	fmt.Fprintf(&b, "Expense: %s\n", st.Expense.Render(totals.Expense.Display()))
	fmt.Fprintf(&b, "Saved:   %s\n", totals.Saved().Display())
	if len(top) == 0 {
		return b.String()
	}
	b.WriteString("\nTop expense categories\n")
	b.WriteString(renderBars(top, label))
	return b.String()
}

// renderBars draws one horizontal bar per amount, scaled to the largest.
func renderBars(items []core.CategoryAmount, label func(string) string) string {
	var maxCents int64
	width := 0
	for _, it := range items {
		maxCents = max(maxCents, it.Amount.Cents)
		width = max(width, lipgloss.Width(label(it.Category)))
	}
	var b strings.Builder
	for _, it := range items {
		n := 0
		if maxCents > 0 {
			n = int(it.Amount.Cents * int64(st.BarWidth) / maxCents)
		}
		name := label(it.Category)
		pad := strings.Repeat(" ", width-lipgloss.Width(name))
		fmt.Fprintf(&b, "%s%s %s %s\n", name, pad, st.Expense.Render(strings.Repeat("█", n)), it.Amount.Display())
	}
	return b.String()
}

func renderSummary(year int, rows []core.SummaryRow) string {
	t := newTable("Month", "Income", "Expense", "Saved", "Achieved", "Status")
	for _, r := range rows {
		t.Row(r.Month, r.Income, r.Expense, r.Saved, r.Percent, goalStatusText(r.Status))
	}
	return st.Header.Render(fmt.Sprint(year)) + "\n" + t.String()
}

func goalStatusText(s string) string {
	switch s {
	case services.GoalOnTrack.String():
		return st.Good.Render(s)
	case services.GoalAtRisk.String():
		return st.Warn.Render(s)
	case services.GoalBehind.String():
		return st.Alert.Render(s)
	default:
		return s
	}
}

func renderInsights(in services.Insights, label func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.Header.Render(fmt.Sprintf("%d goal review", in.Year)))
	fmt.Fprintf(&b, "Monthly goal:  %s\n", in.Goal.Display())
	fmt.Fprintf(&b, "Saved so far:  %s (%s of the yearly goal)\n", in.Saved.Display(), in.Percent)
	fmt.Fprintf(&b, "Status:        %s\n", goalStatusText(in.Status.String()))
	fmt.Fprintf(&b, "Active months: %d\n", in.ActiveRows)

	if len(in.Roadmap.TopCategories) > 0 {
		b.WriteString("\nLargest expense categories\n")
		b.WriteString(renderBars(in.Roadmap.TopCategories, label))
	}

	b.WriteString("\nRoadmap\n")
	for _, r := range in.Roadmap.Recommendations {
		fmt.Fprintf(&b, "  • %s\n", r)
	}
	return st.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func renderDashboard(w services.Widgets, charts services.ChartSeries, emis []services.EmiView, label func(string) string) string {
	cards := []string{
		card("Today's spend", w.TodaySpend.Display()),
		card("Total net", w.TotalNet.Display()),
	}
	if w.RemainingToGoal != nil {
		cards = append(cards, card("Remaining to goal", w.RemainingToGoal.Display()))
	} else {
		cards = append(cards, card("Remaining to goal", "no goal set"))
	}
	if w.TopCategory != nil {
		cards = append(cards, card("Top category", label(w.TopCategory.Category)+" "+w.TopCategory.Amount.Display()))
	} else {
		cards = append(cards, card("Top category", "none this month"))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\nLast three months\n")
	b.WriteString(renderSeries(charts.Recent))

	var due []services.EmiView
	for _, v := range emis {
		if v.Status.Kind == services.EmiDueSoon || v.Status.Kind == services.EmiOverdue {
			due = append(due, v)
		}
	}
	if len(due) > 0 {
		b.WriteString("\nEMIs needing attention\n")
		b.WriteString(renderEmis(due))
	}
	return b.String()
}

func card(title, value string) string {
	return st.Box.Render(st.Muted.Render(title) + "\n" + value)
}

// renderSeries prints each label with its dataset values side by side.
func renderSeries(s core.Series) string {
	headers := append([]string{""}, s.Labels...)
	t := newTable(headers...)
	for _, ds := range s.Datasets {
		row := []string{ds.Label}
		for _, v := range ds.Values {
			row = append(row, v.Display())
		}
		t.Row(row...)
	}
	return t.String()
}
