package timeline

import (
	"sort"
	"time"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// Milestone is one derived calendar event on a tender's timeline. It is
// never persisted; Build recomputes the full set on every render.
type Milestone struct {
	Label      string
	SubLabel   string
	Date       time.Time
	Category   domain.MilestoneCategory
	IsDeadline bool
	IsPassed   bool
	IsNext     bool
}

// fieldSpec binds one tender date field to its timeline annotation.
type fieldSpec struct {
	value      func(domain.Tender) string
	label      string
	subLabel   string
	category   domain.MilestoneCategory
	isDeadline bool
}

// fieldSpecs is the fixed, ordered configuration of tender date fields that
// appear on the timeline. Order only matters for tie-breaking equal dates.
var fieldSpecs = []fieldSpec{
	{
		value:    func(t domain.Tender) string { return t.PublicatieDatum },
		label:    "Publicatie",
		subLabel: "Aanbesteding gepubliceerd",
		category: domain.CategoryPublication,
	},
	{
		value:    func(t domain.Tender) string { return t.SchouwDatum },
		label:    "Schouw",
		subLabel: "Locatiebezoek",
		category: domain.CategoryVisit,
	},
	{
		value:    func(t domain.Tender) string { return t.NotaVanInlichtingen1 },
		label:    "Nota van inlichtingen 1",
		subLabel: "Eerste vragenronde",
		category: domain.CategoryQuestions,
	},
	{
		value:    func(t domain.Tender) string { return t.NotaVanInlichtingen2 },
		label:    "Nota van inlichtingen 2",
		subLabel: "Tweede vragenronde",
		category: domain.CategoryQuestions,
	},
	{
		value:      func(t domain.Tender) string { return t.DeadlineIndiening },
		label:      "Deadline indiening",
		subLabel:   "Inschrijving sluit",
		category:   domain.CategorySubmission,
		isDeadline: true,
	},
	{
		value:    func(t domain.Tender) string { return t.VoorlopigeGunning },
		label:    "Voorlopige gunning",
		subLabel: "Gunningsbeslissing",
		category: domain.CategoryAward,
	},
	{
		value:    func(t domain.Tender) string { return t.DefinitieveGunning },
		label:    "Definitieve gunning",
		subLabel: "Einde bezwaartermijn",
		category: domain.CategoryAward,
	},
	{
		value:    func(t domain.Tender) string { return t.ContractStart },
		label:    "Contract start",
		subLabel: "Ingangsdatum overeenkomst",
		category: domain.CategoryContract,
	},
	{
		value:    func(t domain.Tender) string { return t.ContractEinde },
		label:    "Contract einde",
		subLabel: "Einddatum overeenkomst",
		category: domain.CategoryContract,
	},
}

// Build derives the sorted, annotated timeline for a tender. Unset or
// unparseable date fields are skipped. Entries are sorted ascending by date
// and exactly the first non-passed entry (if any) is marked IsNext. Build is
// pure: it never writes back to the tender record.
func Build(t domain.Tender, now time.Time) []Milestone {
	milestones := make([]Milestone, 0, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		date := domain.ParseDate(spec.value(t))
		if date == nil {
			continue
		}
		milestones = append(milestones, Milestone{
			Label:      spec.label,
			SubLabel:   spec.subLabel,
			Date:       *date,
			Category:   spec.category,
			IsDeadline: spec.isDeadline,
			IsPassed:   date.Before(now),
		})
	}

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Date.Before(milestones[j].Date)
	})

	for i := range milestones {
		if !milestones[i].IsPassed {
			milestones[i].IsNext = true
			break
		}
	}
	return milestones
}

// Next returns the milestone marked IsNext, or nil when every populated date
// has passed (or none exist).
func Next(milestones []Milestone) *Milestone {
	for i := range milestones {
		if milestones[i].IsNext {
			return &milestones[i]
		}
	}
	return nil
}
