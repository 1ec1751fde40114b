package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// Stored shapes. Amounts are major-unit JSON numbers and dates are
// YYYY-MM-DD strings so that documents stay readable and match existing backups.
type (
	transactionRecord struct {
		ID         string     `json:"id"`
		Type       string     `json:"type"`
		Category   string     `json:"category"`
		Amount     core.Money `json:"amount"`
		Date       string     `json:"date"`
		EmiID      *string    `json:"emiId"`
		TemplateID *string    `json:"templateId"`
	}

	emiRecord struct {
		ID       string     `json:"id"`
		Title    string     `json:"title"`
		Amount   core.Money `json:"amount"`
		DueDate  string     `json:"dueDate"`
		Paid     bool       `json:"paid"`
		PaidDate *string    `json:"paidDate"`
	}

	categoryRecord struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	templateRecord struct {
		ID            string     `json:"id"`
		Type          string     `json:"type"`
		Category      string     `json:"category"`
		Amount        core.Money `json:"amount"`
		StartDate     string     `json:"startDate"`
		Interval      string     `json:"interval"`
		LastGenerated string     `json:"lastGenerated"`
	}

	netWorthRecord struct {
		ID     string     `json:"id"`
		Date   string     `json:"date"`
		Assets core.Money `json:"assets"`
		Liab   core.Money `json:"liab"`
	}

	// backupDocument is the portable export format. Field names are fixed.
	backupDocument struct {
		Emis         []emiRecord         `json:"emis"`
		Transactions []transactionRecord `json:"transactions"`
		MonthlyGoal  *core.Money         `json:"monthlyGoal"`
		Categories   []categoryRecord    `json:"categories"`
		NetEntries   []netWorthRecord    `json:"netEntries"`
		Recurring    []templateRecord    `json:"recurring"`
	}
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDocument(s *core.State) backupDocument {
	doc := backupDocument{
		Emis:         make([]emiRecord, 0, len(s.Emis)),
		Transactions: make([]transactionRecord, 0, len(s.Transactions)),
		Categories:   make([]categoryRecord, 0, len(s.Categories)),
		NetEntries:   make([]netWorthRecord, 0, len(s.NetWorth)),
		Recurring:    make([]templateRecord, 0, len(s.Recurring)),
	}
	for _, t := range s.Transactions {
		doc.Transactions = append(doc.Transactions, transactionRecord{
			ID:         t.ID,
			Type:       string(t.Type),
			Category:   t.Category,
			Amount:     t.Amount,
			Date:       t.Date.String(),
			EmiID:      optional(t.EmiID),
			TemplateID: optional(t.TemplateID),
		})
	}
	for _, e := range s.Emis {
		doc.Emis = append(doc.Emis, emiRecord{
			ID:       e.ID,
			Title:    e.Title,
			Amount:   e.Amount,
			DueDate:  e.DueDate.String(),
			Paid:     e.Paid,
			PaidDate: optional(e.PaidDate.String()),
		})
	}
	for _, c := range s.Categories {
		doc.Categories = append(doc.Categories, categoryRecord(c))
	}
	for _, r := range s.Recurring {
		doc.Recurring = append(doc.Recurring, templateRecord{
			ID:            r.ID,
			Type:          string(r.Type),
			Category:      r.Category,
			Amount:        r.Amount,
			StartDate:     r.StartDate.String(),
			Interval:      string(r.Interval),
			LastGenerated: r.LastGenerated.String(),
		})
	}
	for _, n := range s.NetWorth {
		doc.NetEntries = append(doc.NetEntries, netWorthRecord{
			ID:     n.ID,
			Date:   n.Date.String(),
			Assets: n.Assets,
			Liab:   n.Liab,
		})
	}
	if s.Goal != nil {
		g := *s.Goal
		doc.MonthlyGoal = &g
	}
	return doc
}

// EncodeState renders every collection to the value stored under its key.
func EncodeState(s *core.State) (map[string]string, error) {
	doc := toDocument(s)
	values := make(map[string]string, len(Keys))
	for key, v := range map[string]any{
		KeyTransactions: doc.Transactions,
		KeyEmis:         doc.Emis,
		KeyCategories:   doc.Categories,
		KeyRecurring:    doc.Recurring,
		KeyNetWorth:     doc.NetEntries,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = string(b)
	}
	values[KeyMonthlyGoal] = ""
	if s.Goal != nil {
		values[KeyMonthlyGoal] = s.Goal.String()
	}
	return values, nil
}

// MarshalBackup renders the whole state as a backup document.
func MarshalBackup(s *core.State) ([]byte, error) {
	b, err := json.MarshalIndent(toDocument(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return b, nil
}

// decodeLenient parses JSON keeping numbers as json.Number. Malformed input yields ok=false.
func decodeLenient(data []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// UnmarshalBackup turns a backup document into a consistent state. It never
// fails: unreadable input yields the defaults and is logged.
func (n *Normalizer) UnmarshalBackup(ctx context.Context, data []byte) *core.State {
	v, ok := decodeLenient(data)
	doc, isObject := v.(map[string]any)
	if !ok || !isObject {
		slog.WarnContext(ctx, "Backup document unreadable, restoring defaults", "bytes", len(data))
		doc = map[string]any{}
	}
	cats, hasCats := doc["categories"]
	return n.Build(ctx, Raw{
		Transactions:      doc["transactions"],
		Emis:              doc["emis"],
		Categories:        cats,
		CategoriesPresent: hasCats,
		Recurring:         doc["recurring"],
		NetWorth:          doc["netEntries"],
		Goal:              doc["monthlyGoal"],
	})
}

// LoadState reads every key from store and normalizes what it finds. Missing,
// corrupt or unreadable values fall back to defaults; errors are only logged.
func (n *Normalizer) LoadState(ctx context.Context, store Store) *core.State {
	raw := Raw{}
	for _, key := range Keys {
		value, ok, err := store.Load(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load key, using defaults", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if key == KeyMonthlyGoal {
			raw.Goal = value
			continue
		}
		v, parsed := decodeLenient([]byte(value))
		if !parsed {
			slog.WarnContext(ctx, "Stored value is not valid JSON, using defaults", "key", key)
			continue
		}
		switch key {
		case KeyTransactions:
			raw.Transactions = v
		case KeyEmis:
			raw.Emis = v
		case KeyCategories:
			raw.Categories = v
			raw.CategoriesPresent = true
		case KeyRecurring:
			raw.Recurring = v
		case KeyNetWorth:
			raw.NetWorth = v
		}
	}
	return n.Build(ctx, raw)
}
