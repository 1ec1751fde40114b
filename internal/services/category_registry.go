package services

import (
	"slices"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// CategoryRegistry owns the category taxonomy. Ids are derived once from the
// name and never change; renames and icon changes only touch display fields.
type CategoryRegistry struct {
	state *core.State
	ids   core.IDGenerator
}

func NewCategoryRegistry(state *core.State, ids core.IDGenerator) *CategoryRegistry {
	return &CategoryRegistry{state: state, ids: ids}
}

// All returns the categories in insertion order.
func (r *CategoryRegistry) All() []core.Category {
	return slices.Clone(r.state.Categories)
}

func (r *CategoryRegistry) index(id string) int {
	return slices.IndexFunc(r.state.Categories, func(c core.Category) bool { return c.ID == id })
}

func (r *CategoryRegistry) Get(id string) (core.Category, bool) {
	if i := r.index(id); i >= 0 {
		return r.state.Categories[i], true
	}
	return core.Category{}, false
}

func (r *CategoryRegistry) Exists(id string) bool {
	return r.index(id) >= 0
}

// Add creates a category and returns its id. The id is the slug of name,
// suffixed with -2, -3, ... on collision, or a generated id when the slug is empty.
func (r *CategoryRegistry) Add(name, icon string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.Invalid("name", core.ErrEmptyName)
	}
	base := core.Slugify(name)
	if base == "" {
		base = r.ids.NewID(core.PrefixCategory)
	}
	id := base
	for n := 2; r.Exists(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	r.state.Categories = append(r.state.Categories, core.Category{
		ID:   id,
		Name: name,
		Icon: strings.TrimSpace(icon),
	})
	return id, nil
}

func (r *CategoryRegistry) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Invalid("name", core.ErrEmptyName)
	}
	i := r.index(id)
	if i < 0 {
		return core.NotFound("category", id)
	}
	r.state.Categories[i].Name = name
	return nil
}

func (r *CategoryRegistry) SetIcon(id, icon string) error {
	i := r.index(id)
	if i < 0 {
		return core.NotFound("category", id)
	}
	r.state.Categories[i].Icon = strings.TrimSpace(icon)
	return nil
}

// Remove deletes a category after moving every transaction and recurring
// template that references it to "other". It returns how many transactions
// were reassigned. Removing "other" itself re-creates it straight away.
func (r *CategoryRegistry) Remove(id string) (int, error) {
	i := r.index(id)
	if i < 0 {
		return 0, core.NotFound("category", id)
	}
	r.state.Categories = slices.Delete(r.state.Categories, i, i+1)
	r.state.EnsureCategory(core.CategoryOther)

	reassigned := 0
	for j := range r.state.Transactions {
		if r.state.Transactions[j].Category == id {
			r.state.Transactions[j].Category = core.CategoryOther
			reassigned++
		}
	}
	for j := range r.state.Recurring {
		if r.state.Recurring[j].Category == id {
			r.state.Recurring[j].Category = core.CategoryOther
		}
	}
	return reassigned, nil
}

// Ensure re-creates a seeded default category if it was deleted and returns its id.
func (r *CategoryRegistry) Ensure(id string) string {
	r.state.EnsureCategory(id)
	return id
}

// ResolveLabel returns the display label for id, matching by id first and then
// by name. Unknown ids resolve to themselves.
func (r *CategoryRegistry) ResolveLabel(id string) string {
	if c, ok := r.Get(id); ok {
		return c.Label()
	}
	for _, c := range r.state.Categories {
		if c.Name == id {
			return c.Label()
		}
	}
	return id
}
