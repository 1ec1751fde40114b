// Package storage persists the ledger as a handful of JSON documents in a
// key-value store and turns whatever it finds there back into a consistent
// core.State.
package storage

import (
	"context"
	"fmt"
)

// Keys under which each collection is stored.
const (
	KeyTransactions = "ft_transactions"
	KeyEmis         = "ft_emis"
	KeyCategories   = "ft_categories"
	KeyRecurring    = "ft_recurring"
	KeyNetWorth     = "ft_networth"
	KeyMonthlyGoal  = "ft_monthlyGoal"
)

// Keys lists every key the ledger owns, in flush order.
var Keys = []string{
	KeyTransactions,
	KeyEmis,
	KeyCategories,
	KeyRecurring,
	KeyNetWorth,
	KeyMonthlyGoal,
}

// Store is a string key-value store. Load reports ok=false for absent keys.
type Store interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

// BatchSaver is implemented by stores that can write several keys atomically.
type BatchSaver interface {
	SaveAll(ctx context.Context, values map[string]string) error
}

// SaveAll writes values through BatchSaver when s supports it, key by key otherwise.
func SaveAll(ctx context.Context, s Store, values map[string]string) error {
	if b, ok := s.(BatchSaver); ok {
		return b.SaveAll(ctx, values)
	}
	for _, key := range Keys {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := s.Save(ctx, key, v); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
