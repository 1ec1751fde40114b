package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Percent is a percentage with one decimal place, stored in tenths.
type Percent struct {
	Tenths int64
}

func (p Percent) Decimal() decimal.Decimal { return decimal.New(p.Tenths, -1) }

func (p Percent) String() string { return p.Decimal().StringFixed(1) + "%" }

var half = decimal.New(5, -1)

// AchievementPercent is saved/goal as a percentage rounded to one decimal,
// rounding halves upward. ok is false when goal is not positive.
func AchievementPercent(saved, goal core.Money) (Percent, bool) {
	if !goal.IsPositive() {
		return Percent{}, false
	}
	ratio := decimal.NewFromInt(saved.Cents).Mul(decimal.NewFromInt(1000)).Div(decimal.NewFromInt(goal.Cents))
	return Percent{Tenths: ratio.Add(half).Floor().IntPart()}, true
}

type GoalStatus int

const (
	GoalBehind GoalStatus = iota
	GoalAtRisk
	GoalOnTrack
)

func (s GoalStatus) String() string {
	switch s {
	case GoalOnTrack:
		return "OnTrack"
	case GoalAtRisk:
		return "AtRisk"
	default:
		return "Behind"
	}
}

// Classify buckets an achievement: 100% and above is on track, 75% at risk.
func Classify(p Percent) GoalStatus {
	switch {
	case p.Tenths >= 1000:
		return GoalOnTrack
	case p.Tenths >= 750:
		return GoalAtRisk
	default:
		return GoalBehind
	}
}

// MonthInsight is one row of the yearly goal table.
type MonthInsight struct {
	core.MonthTotals
	Saved   core.Money
	Percent Percent
	Status  GoalStatus
}

type Roadmap struct {
	Shortfall       *core.Money // nil when on track
	TopCategories   []core.CategoryAmount
	Recommendations []string
}

// Insights summarizes a year against the monthly goal.
type Insights struct {
	Year       int
	Goal       core.Money
	Months     [12]MonthInsight
	Totals     core.Totals
	Saved      core.Money
	Percent    Percent // against Goal x 12
	Status     GoalStatus
	Roadmap    Roadmap
	ActiveRows int // months with at least one transaction
}

// GoalAdvisor compares savings with the monthly goal and proposes next steps.
type GoalAdvisor struct {
	state      *core.State
	categories *CategoryRegistry
}

func NewGoalAdvisor(state *core.State, categories *CategoryRegistry) *GoalAdvisor {
	return &GoalAdvisor{state: state, categories: categories}
}

const topCategoryCount = 3

// Insights computes the goal report for year. ok is false when no goal is set.
func (a *GoalAdvisor) Insights(year int) (Insights, bool) {
	if a.state.Goal == nil || !a.state.Goal.IsPositive() {
		return Insights{}, false
	}
	goal := *a.state.Goal
	in := Insights{Year: year, Goal: goal}

	active := make(map[int]bool)
	for _, t := range a.state.Transactions {
		if t.Date.Year() == year {
			active[t.Date.Month()] = true
		}
	}

	for i, row := range YearlyTotals(a.state.Transactions, year) {
		saved := row.Saved()
		pct, _ := AchievementPercent(saved, goal)
		in.Months[i] = MonthInsight{MonthTotals: row, Saved: saved, Percent: pct, Status: Classify(pct)}
		in.Totals.Income = in.Totals.Income.Add(row.Income)
		in.Totals.Expense = in.Totals.Expense.Add(row.Expense)
		if active[i+1] {
			in.ActiveRows++
		}
	}
	in.Saved = in.Totals.Saved()

	yearlyGoal := core.Cents(goal.Cents * 12)
	in.Percent, _ = AchievementPercent(in.Saved, yearlyGoal)
	in.Status = Classify(in.Percent)

	ranked := RankCategories(CategoryTotals(a.state.Transactions, core.Expense, InYear(year)))
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	in.Roadmap = a.roadmap(in, yearlyGoal, ranked)
	return in, true
}

func (a *GoalAdvisor) roadmap(in Insights, yearlyGoal core.Money, top []core.CategoryAmount) Roadmap {
	r := Roadmap{TopCategories: top}
	if in.Status == GoalOnTrack {
		r.Recommendations = []string{"You are on track for yearly goals, consider investing excess savings."}
		return r
	}
	shortfall := yearlyGoal.Sub(in.Saved)
	r.Shortfall = &shortfall
	r.Recommendations = append(r.Recommendations, fmt.Sprintf("Shortfall this year: %s", shortfall.Display()))
	if len(top) > 0 {
		parts := make([]string, len(top))
		for i, c := range top {
			parts[i] = a.categories.ResolveLabel(c.Category) + " " + c.Amount.Display()
		}
		r.Recommendations = append(r.Recommendations, "Reduce spending in: "+strings.Join(parts, ", ")+".")
	}
	r.Recommendations = append(r.Recommendations,
		"Automate a monthly transfer to savings on day 1.",
		"Review subscriptions and pause unused ones.",
	)
	return r
}
