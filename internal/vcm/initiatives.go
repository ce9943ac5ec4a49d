package vcm

import (
	"github.com/pkg/errors"
)

// Initiative is a concise improvement recommendation.
type Initiative struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultInitiativeLimit caps how many initiatives a pillar section
// carries, to keep reports readable.
const DefaultInitiativeLimit = 3

// scoreBand is half-open: a score belongs to the band when
// low <= score < high, so boundary scores land in the higher band.
type scoreBand struct {
	low, high float64
}

// the top band runs slightly past 5 to absorb rounding on averages
var initiativeBands = []scoreBand{
	{0, 2.0},
	{2.0, 3.0},
	{3.0, 4.0},
	{4.0, 5.1},
}

// initiativeTable holds per-pillar suggestions, one list per band,
// parallel to initiativeBands.
var initiativeTable = map[string][][]Initiative{
	"strategy": {
		{
			{Title: "Define value north star", Description: "Document 3-5 measurable value outcomes and circulate them across leadership."},
			{Title: "Decision cadence", Description: "Establish a monthly forum to prioritize work by value and risk."},
		},
		{
			{Title: "Roadmap by value", Description: "Score backlog items by impact vs. effort and publish a quarterly roadmap."},
		},
		{
			{Title: "KPIs with ownership", Description: "Assign accountable owners for value KPIs and track progress in a shared dashboard."},
		},
		{
			{Title: "Adaptive capital allocation", Description: "Rebalance funding each quarter based on realized benefits and new opportunities."},
		},
	},
	"data": {
		{
			{Title: "Data inventory", Description: "List critical datasets, owners, and known gaps to inform remediation priorities."},
		},
		{
			{Title: "Quality baselines", Description: "Implement basic data quality checks on the most used tables or reports."},
			{Title: "Tooling uplift", Description: "Pilot a modern analytics stack with one high-value use case."},
		},
		{
			{Title: "Model governance", Description: "Introduce versioning, testing, and monitoring for key analytical models."},
		},
		{
			{Title: "Self-service enablement", Description: "Broaden governed data access and training for power users across teams."},
		},
	},
	"execution": {
		{
			{Title: "Delivery playbook", Description: "Standardize intake templates, stage gates, and RACI to reduce ambiguity."},
		},
		{
			{Title: "Pilot value tracking", Description: "Run a small project with explicit benefit hypotheses and simple tracking."},
		},
		{
			{Title: "Benefits realization", Description: "Embed benefit tracking into project close-out and post-launch reviews."},
		},
		{
			{Title: "Portfolio optimization", Description: "Continuously reprioritize initiatives based on realized vs. forecast benefits."},
		},
	},
	"culture": {
		{
			{Title: "Narrative for change", Description: "Share success stories linking value outcomes to daily work to build momentum."},
		},
		{
			{Title: "Targeted enablement", Description: "Offer short trainings on value framing, data literacy, and change management."},
		},
		{
			{Title: "Incentives alignment", Description: "Align performance goals and recognition with value-centric behaviors."},
		},
		{
			{Title: "Communities of practice", Description: "Sustain peer-led forums to share learnings and continuously improve."},
		},
	},
}

func bandIndex(score float64) int {
	for i, band := range initiativeBands {
		if score >= band.low && score < band.high {
			return i
		}
	}
	// out-of-range scores clamp to the nearest band
	if score < initiativeBands[0].low {
		return 0
	}
	return len(initiativeBands) - 1
}

//
// pick the initiatives for a pillar that match the given score
//
// the returned list is in table order and capped at limit entries
// (DefaultInitiativeLimit when limit <= 0). Any value-at-stake figure
// a caller may hold is display-only and never changes the selection.
//
func TopInitiatives(pillarID string, score float64, limit int) ([]Initiative, error) {

	byBand, ok := initiativeTable[pillarID]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "no initiatives registered for pillar %q", pillarID)
	}

	if limit <= 0 {
		limit = DefaultInitiativeLimit
	}

	ideas := byBand[bandIndex(score)]
	if limit > len(ideas) {
		limit = len(ideas)
	}

	out := make([]Initiative, limit)
	copy(out, ideas[:limit])
	return out, nil
}
