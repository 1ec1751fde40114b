package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// Raw holds the decoded but unchecked contents of each collection, as
// produced by encoding/json with UseNumber.
type Raw struct {
	Transactions      any
	Emis              any
	Categories        any
	CategoriesPresent bool
	Recurring         any
	NetWorth          any
	Goal              any
}

// Normalizer repairs persisted data into a consistent state. Every record
// field that is missing or malformed is replaced by a safe default; nothing
// here returns an error.
type Normalizer struct {
	IDs   core.IDGenerator
	Clock core.Clock
}

// Build turns raw collections into a State that satisfies the ledger's
// cross-collection invariants.
func (n *Normalizer) Build(ctx context.Context, raw Raw) *core.State {
	s := &core.State{}
	today := n.Clock.Today()

	if list, ok := raw.Categories.([]any); ok && raw.CategoriesPresent {
		s.Categories = n.categories(list)
	} else {
		s.Categories = core.DefaultCategories()
	}

	seen := map[string]bool{}
	for _, m := range objects(raw.Transactions) {
		t := n.transaction(m, today)
		t.ID = n.uniqueID(seen, t.ID, core.PrefixTransaction)
		s.Transactions = append(s.Transactions, t)
	}

	seen = map[string]bool{}
	for _, m := range objects(raw.Emis) {
		e := n.emi(m, today)
		e.ID = n.uniqueID(seen, e.ID, core.PrefixEmi)
		s.Emis = append(s.Emis, e)
	}

	seen = map[string]bool{}
	for _, m := range objects(raw.Recurring) {
		r, ok := n.template(m, today)
		if !ok {
			slog.WarnContext(ctx, "Dropping unusable recurring template", "id", r.ID)
			continue
		}
		r.ID = n.uniqueID(seen, r.ID, core.PrefixTemplate)
		s.Recurring = append(s.Recurring, r)
	}

	seen = map[string]bool{}
	for _, m := range objects(raw.NetWorth) {
		e := n.netWorth(m, today)
		e.ID = n.uniqueID(seen, e.ID, core.PrefixNetWorth)
		s.NetWorth = append(s.NetWorth, e)
	}

	if g := core.FromDecimal(raw.Goal); g.IsPositive() {
		s.Goal = &g
	}

	n.Repair(ctx, s)
	return s
}

func (n *Normalizer) uniqueID(seen map[string]bool, id, prefix string) string {
	for id == "" || seen[id] {
		id = n.IDs.NewID(prefix)
	}
	seen[id] = true
	return id
}

func (n *Normalizer) categories(list []any) []core.Category {
	out := make([]core.Category, 0, len(list))
	seen := map[string]bool{}
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		c := core.Category{
			ID:   text(m, "id"),
			Name: text(m, "name"),
			Icon: text(m, "icon"),
		}
		if c.ID == "" {
			c.ID = core.Slugify(c.Name)
		}
		if c.ID == "" {
			c.ID = n.IDs.NewID(core.PrefixCategory)
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if c.Name == "" {
			c.Name = c.ID
		}
		out = append(out, c)
	}
	return out
}

func (n *Normalizer) transaction(m map[string]any, today core.Date) core.Transaction {
	t := core.Transaction{
		ID:         text(m, "id"),
		Type:       core.TransactionType(text(m, "type")),
		Category:   text(m, "category"),
		Amount:     amount(m, "amount"),
		Date:       date(m, "date", today),
		EmiID:      text(m, "emiId"),
		TemplateID: text(m, "templateId"),
	}
	if !t.Type.Valid() {
		t.Type = core.Expense
	}
	if t.Category == "" {
		t.Category = core.CategoryOther
	}
	return t
}

func (n *Normalizer) emi(m map[string]any, today core.Date) core.Emi {
	e := core.Emi{
		ID:      text(m, "id"),
		Title:   text(m, "title"),
		Amount:  amount(m, "amount"),
		DueDate: date(m, "dueDate", today),
		Paid:    flag(m, "paid"),
	}
	if e.Title == "" {
		e.Title = "EMI"
	}
	if e.Paid {
		e.PaidDate = date(m, "paidDate", today)
	}
	return e
}

// template reports ok=false for templates that can never produce a valid transaction.
func (n *Normalizer) template(m map[string]any, today core.Date) (core.RecurringTemplate, bool) {
	r := core.RecurringTemplate{
		ID:        text(m, "id"),
		Type:      core.TransactionType(text(m, "type")),
		Category:  text(m, "category"),
		Amount:    amount(m, "amount"),
		StartDate: date(m, "startDate", today),
		Interval:  core.RepetitionInterval(text(m, "interval")),
	}
	if !r.Interval.Valid() || !r.Amount.IsPositive() {
		return r, false
	}
	if !r.Type.Valid() {
		r.Type = core.Expense
	}
	if r.Category == "" {
		r.Category = core.CategoryOther
	}
	r.LastGenerated = date(m, "lastGenerated", r.StartDate)
	if r.LastGenerated.Before(r.StartDate) {
		r.LastGenerated = r.StartDate
	}
	return r, true
}

func (n *Normalizer) netWorth(m map[string]any, today core.Date) core.NetWorthEntry {
	return core.NetWorthEntry{
		ID:     text(m, "id"),
		Date:   date(m, "date", today),
		Assets: amount(m, "assets"),
		Liab:   amount(m, "liab"),
	}
}

// Repair enforces the invariants that span collections:
// every category reference resolves, EMI links match paid flags and
// no template materializes twice on the same date.
func (n *Normalizer) Repair(ctx context.Context, s *core.State) {
	byName := make(map[string]string, len(s.Categories))
	for _, c := range s.Categories {
		byName[c.Name] = c.ID
	}
	resolve := func(id string) string {
		if s.HasCategory(id) {
			return id
		}
		if byID, ok := byName[id]; ok {
			return byID
		}
		s.EnsureCategory(core.CategoryOther)
		return core.CategoryOther
	}
	for i := range s.Transactions {
		s.Transactions[i].Category = resolve(s.Transactions[i].Category)
	}
	for i := range s.Recurring {
		s.Recurring[i].Category = resolve(s.Recurring[i].Category)
	}

	emis := make(map[string]*core.Emi, len(s.Emis))
	for i := range s.Emis {
		emis[s.Emis[i].ID] = &s.Emis[i]
	}
	linked := map[string]bool{}
	type templateDay struct {
		id  string
		day string
	}
	materialized := map[templateDay]bool{}
	kept := s.Transactions[:0]
	dropped := 0
	for _, t := range s.Transactions {
		if t.EmiID != "" {
			e, ok := emis[t.EmiID]
			if !ok || !e.Paid || linked[t.EmiID] {
				dropped++
				continue
			}
			linked[t.EmiID] = true
		}
		if t.TemplateID != "" {
			k := templateDay{t.TemplateID, t.Date.String()}
			if materialized[k] {
				dropped++
				continue
			}
			materialized[k] = true
		}
		kept = append(kept, t)
	}
	s.Transactions = kept

	created := 0
	for i := range s.Emis {
		e := &s.Emis[i]
		if !e.Paid {
			e.PaidDate = core.Date{}
			continue
		}
		if linked[e.ID] {
			continue
		}
		s.EnsureCategory(core.CategoryEMI)
		s.Transactions = append(s.Transactions, core.Transaction{
			ID:       n.IDs.NewID(core.PrefixTransaction),
			Type:     core.Expense,
			Category: core.CategoryEMI,
			Amount:   e.Amount,
			Date:     e.PaidDate,
			EmiID:    e.ID,
		})
		created++
	}

	if dropped > 0 || created > 0 {
		slog.WarnContext(ctx, "Repaired ledger links", "dropped", dropped, "created", created)
	}
}

// objects returns the JSON objects of v when v is an array; anything else is empty.
func objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func text(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func flag(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// amount reads a non-negative money value; anything else is zero.
func amount(m map[string]any, key string) core.Money {
	a := core.FromDecimal(m[key])
	if a.IsNegative() {
		return core.Money{}
	}
	return a
}

func date(m map[string]any, key string, fallback core.Date) core.Date {
	d, err := core.ParseDate(text(m, key))
	if err != nil {
		return fallback
	}
	return d
}
