package core

import "slices"

// State holds every collection the ledger owns. Components receive a pointer
// to the same State and never keep copies of its slices.
type State struct {
	Transactions []Transaction
	Emis         []Emi
	Categories   []Category
	Recurring    []RecurringTemplate
	NetWorth     []NetWorthEntry
	Goal         *Money // monthly savings target; nil when unset
}

// NewState returns an empty ledger with the default categories.
func NewState() *State {
	return &State{Categories: DefaultCategories()}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{
		Transactions: slices.Clone(s.Transactions),
		Emis:         slices.Clone(s.Emis),
		Categories:   slices.Clone(s.Categories),
		Recurring:    slices.Clone(s.Recurring),
		NetWorth:     slices.Clone(s.NetWorth),
	}
	if s.Goal != nil {
		g := *s.Goal
		c.Goal = &g
	}
	return c
}

// Replace overwrites s with the contents of other, keeping the pointer stable
// for components that hold it.
func (s *State) Replace(other *State) {
	*s = *other.Clone()
}

// Counts summarizes the size of each collection.
type Counts struct {
	Transactions int
	Emis         int
	Categories   int
	Recurring    int
	NetWorth     int
	Goal         *Money
}

func (s *State) Counts() Counts {
	return Counts{
		Transactions: len(s.Transactions),
		Emis:         len(s.Emis),
		Categories:   len(s.Categories),
		Recurring:    len(s.Recurring),
		NetWorth:     len(s.NetWorth),
		Goal:         s.Goal,
	}
}

// IDs lists the id of every record in s.
func (s *State) IDs() []string {
	ids := make([]string, 0, len(s.Transactions)+len(s.Emis)+len(s.Categories)+len(s.Recurring)+len(s.NetWorth))
	for _, t := range s.Transactions {
		ids = append(ids, t.ID)
	}
	for _, e := range s.Emis {
		ids = append(ids, e.ID)
	}
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
	}
	for _, r := range s.Recurring {
		ids = append(ids, r.ID)
	}
	for _, n := range s.NetWorth {
		ids = append(ids, n.ID)
	}
	return ids
}

// HasCategory reports whether id names an existing category.
func (s *State) HasCategory(id string) bool {
	return slices.ContainsFunc(s.Categories, func(c Category) bool { return c.ID == id })
}

// EnsureCategory re-creates a missing category, using the seeded definition
// when id is one of the defaults. It reports whether anything was added.
func (s *State) EnsureCategory(id string) bool {
	if s.HasCategory(id) {
		return false
	}
	c, ok := DefaultCategory(id)
	if !ok {
		c = Category{ID: id, Name: id}
	}
	s.Categories = append(s.Categories, c)
	return true
}
