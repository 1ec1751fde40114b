package core

import (
	"errors"
	"regexp"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Weekly  RepetitionInterval = "weekly"
	Monthly RepetitionInterval = "monthly"
)

// Well-known category ids. CategoryOther is the fallback every orphaned
// transaction is moved to; CategoryEMI receives paid installments.
const (
	CategoryOther = "other"
	CategoryEMI   = "emi"
)

type (
	TransactionType string

	RepetitionInterval string

	Category struct {
		ID   string
		Name string
		Icon string
	}

	Transaction struct {
		ID         string
		Type       TransactionType
		Category   string
		Amount     Money
		Date       Date
		EmiID      string // set when created by marking an EMI paid
		TemplateID string // set when materialized from a recurring template
	}

	Emi struct {
		ID       string
		Title    string
		Amount   Money
		DueDate  Date
		Paid     bool
		PaidDate Date // zero unless Paid
	}

	RecurringTemplate struct {
		ID            string
		Type          TransactionType
		Category      string
		Amount        Money
		StartDate     Date
		Interval      RepetitionInterval
		LastGenerated Date
	}

	NetWorthEntry struct {
		ID     string
		Date   Date
		Assets Money
		Liab   Money
	}
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (i RepetitionInterval) Valid() bool {
	return i == Weekly || i == Monthly
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() Money {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return Invalid("type", ErrInvalidType)
	}
	if strings.TrimSpace(t.Category) == "" {
		return Invalid("category", ErrUnknownCategory)
	}
	if err := t.Amount.Validate(); err != nil {
		return Invalid("amount", err)
	}
	if err := t.Date.Validate(); err != nil {
		return Invalid("date", err)
	}
	return nil
}

func (e Emi) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return Invalid("title", ErrEmptyTitle)
	}
	if len(e.Title) > 200 {
		return Invalid("title", errors.New("title too long (max 200 characters)"))
	}
	if err := e.Amount.Validate(); err != nil {
		return Invalid("amount", err)
	}
	if err := e.DueDate.Validate(); err != nil {
		return Invalid("due date", err)
	}
	return nil
}

func (rt RecurringTemplate) Validate() error {
	if !rt.Type.Valid() {
		return Invalid("type", ErrInvalidType)
	}
	if strings.TrimSpace(rt.Category) == "" {
		return Invalid("category", ErrUnknownCategory)
	}
	if err := rt.Amount.Validate(); err != nil {
		return Invalid("amount", err)
	}
	if err := rt.StartDate.Validate(); err != nil {
		return Invalid("start date", err)
	}
	if !rt.Interval.Valid() {
		return Invalid("interval", ErrInvalidInterval)
	}
	return nil
}

func (n NetWorthEntry) Validate() error {
	if err := n.Date.Validate(); err != nil {
		return Invalid("date", err)
	}
	if n.Assets.IsNegative() {
		return Invalid("assets", ErrInvalidAmount)
	}
	if n.Liab.IsNegative() {
		return Invalid("liabilities", ErrInvalidAmount)
	}
	return nil
}

// Label is what people see for a category: the icon followed by the name.
func (c Category) Label() string {
	if c.Icon == "" {
		return c.Name
	}
	return c.Icon + " " + c.Name
}

// DefaultCategories returns the categories a fresh ledger starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "salary", Name: "Salary", Icon: "💼"},
		{ID: "food", Name: "Food", Icon: "🍔"},
		{ID: CategoryEMI, Name: "EMI", Icon: "🏦"},
		{ID: "utilities", Name: "Utilities", Icon: "💡"},
		{ID: CategoryOther, Name: "Other", Icon: "🔖"},
	}
}

// DefaultCategory returns the seeded definition for id, if it is one.
func DefaultCategory(id string) (Category, bool) {
	for _, c := range DefaultCategories() {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	nonSlugRun = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives a category id from a display name: lower-cased, whitespace
// replaced by dashes, everything outside [a-z0-9-] dropped. It may return "".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRun.ReplaceAllString(s, "-")
	return nonSlugRun.ReplaceAllString(s, "")
}
