package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"fintrack/internal/core"
)

type TemplateInput struct {
	Type      core.TransactionType
	Category  string
	Amount    core.Money
	StartDate core.Date
	Interval  core.RepetitionInterval
}

// RecurringProcessor turns recurring templates into concrete transactions.
type RecurringProcessor struct {
	state  *core.State
	ledger *Ledger
	ids    core.IDGenerator
}

func NewRecurringProcessor(state *core.State, ledger *Ledger, ids core.IDGenerator) *RecurringProcessor {
	return &RecurringProcessor{state: state, ledger: ledger, ids: ids}
}

// AddTemplate registers a template and books its first occurrence on the
// start date. The seed transaction carries the template id.
func (p *RecurringProcessor) AddTemplate(in TemplateInput) (core.RecurringTemplate, core.Transaction, error) {
	tpl := core.RecurringTemplate{
		Type:          in.Type,
		Category:      strings.TrimSpace(in.Category),
		Amount:        in.Amount,
		StartDate:     in.StartDate,
		Interval:      in.Interval,
		LastGenerated: in.StartDate,
	}
	if err := tpl.Validate(); err != nil {
		return core.RecurringTemplate{}, core.Transaction{}, err
	}
	tpl.ID = p.ids.NewID(core.PrefixTemplate)

	seed, err := p.ledger.Add(TransactionInput{
		Type:       tpl.Type,
		Category:   tpl.Category,
		Amount:     tpl.Amount,
		Date:       tpl.StartDate,
		TemplateID: tpl.ID,
	})
	if err != nil {
		return core.RecurringTemplate{}, core.Transaction{}, err
	}
	p.state.Recurring = append(p.state.Recurring, tpl)
	return tpl, seed, nil
}

// RemoveTemplate stops future generation. Transactions already materialized stay.
func (p *RecurringProcessor) RemoveTemplate(id string) error {
	i := slices.IndexFunc(p.state.Recurring, func(t core.RecurringTemplate) bool { return t.ID == id })
	if i < 0 {
		return core.NotFound("template", id)
	}
	p.state.Recurring = slices.Delete(p.state.Recurring, i, i+1)
	return nil
}

func (p *RecurringProcessor) Templates() []core.RecurringTemplate {
	return slices.Clone(p.state.Recurring)
}

// MaterializeDue creates every occurrence up to and including asOf that has
// not been booked yet and advances each template's LastGenerated. Running it
// twice for the same date creates nothing the second time.
func (p *RecurringProcessor) MaterializeDue(ctx context.Context, asOf core.Date) (int, error) {
	booked := make(map[string]map[string]bool)
	for _, t := range p.state.Transactions {
		if t.TemplateID == "" {
			continue
		}
		if booked[t.TemplateID] == nil {
			booked[t.TemplateID] = make(map[string]bool)
		}
		booked[t.TemplateID][t.Date.String()] = true
	}

	created := 0
	for i := range p.state.Recurring {
		tpl := &p.state.Recurring[i]
		stepper, err := GetIntervalStepper(tpl.Interval)
		if err != nil {
			slog.WarnContext(ctx, "Skipping recurring template", "template_id", tpl.ID, "error", err)
			continue
		}
		if tpl.LastGenerated.IsEmpty() || tpl.LastGenerated.Before(tpl.StartDate) {
			tpl.LastGenerated = tpl.StartDate
		}

		for next := stepper.Next(tpl.LastGenerated, tpl.StartDate); !next.After(asOf); next = stepper.Next(tpl.LastGenerated, tpl.StartDate) {
			if !next.After(tpl.LastGenerated) {
				return created, fmt.Errorf("template %s: interval %s does not advance", tpl.ID, tpl.Interval)
			}
			if !booked[tpl.ID][next.String()] {
				if _, err := p.ledger.Add(TransactionInput{
					Type:       tpl.Type,
					Category:   tpl.Category,
					Amount:     tpl.Amount,
					Date:       next,
					TemplateID: tpl.ID,
				}); err != nil {
					return created, fmt.Errorf("materialize template %s on %s: %w", tpl.ID, next, err)
				}
				created++
			}
			tpl.LastGenerated = next
		}
	}

	if created > 0 {
		slog.InfoContext(ctx, "Materialized recurring transactions",
			"created", created,
			"as_of", asOf.String())
	}
	return created, nil
}
