package vcm

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrInvalidInput marks every rejection of caller-supplied input:
// unanswered questions, unknown option labels, unknown question or
// pillar references. Callers test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// PillarScore is the aggregated result for a single pillar.
type PillarScore struct {
	PillarID  string         `json:"pillarId"`
	Average   float64        `json:"average"`
	Responses map[string]int `json:"responses"`
}

// Result is the outcome of scoring a complete answer set.
type Result struct {
	PillarScores map[string]PillarScore `json:"pillarScores"`
	Overall      float64                `json:"overallScore"`
	Level        string                 `json:"maturityLevel"`
}

//
// score a set of answers against the catalog
//
// answers maps question id to the selected option label. Every question
// in the catalog must be answered: a partial answer set is rejected
// rather than silently averaged over the answered subset, so a report
// can never understate how much of the questionnaire was completed.
//
func Score(cat *Catalog, answers map[string]string) (*Result, error) {

	if len(answers) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "no questions have been answered")
	}

	known := make(map[string]bool, cat.QuestionCount())
	pillarScores := make(map[string]PillarScore, len(cat.Pillars))

	for _, pillar := range cat.Pillars {
		responses := make(map[string]int, len(pillar.Questions))
		for _, q := range pillar.Questions {
			known[q.ID] = true
			label, ok := answers[q.ID]
			if !ok {
				return nil, errors.Wrapf(ErrInvalidInput, "question %q has no answer", q.ID)
			}
			score, ok := cat.OptionScore(label)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidInput, "unknown option %q for question %q", label, q.ID)
			}
			responses[q.ID] = score
		}

		total := 0
		for _, s := range responses {
			total += s
		}
		pillarScores[pillar.ID] = PillarScore{
			PillarID:  pillar.ID,
			Average:   float64(total) / float64(len(responses)),
			Responses: responses,
		}
	}

	// reject answers that reference questions outside the catalog,
	// picked in sorted order so the error is stable
	var strays []string
	for id := range answers {
		if !known[id] {
			strays = append(strays, id)
		}
	}
	if len(strays) > 0 {
		sort.Strings(strays)
		return nil, errors.Wrapf(ErrInvalidInput, "answer references unknown question %q", strays[0])
	}

	overall := OverallAverage(pillarScores)

	return &Result{
		PillarScores: pillarScores,
		Overall:      overall,
		Level:        MaturityLevel(overall),
	}, nil
}

// OverallAverage is the unweighted mean of the pillar averages.
func OverallAverage(pillarScores map[string]PillarScore) float64 {
	if len(pillarScores) == 0 {
		return 0
	}
	total := 0.0
	for _, ps := range pillarScores {
		total += ps.Average
	}
	return total / float64(len(pillarScores))
}

// MaturityLevel translates an overall numeric score into a label.
// Bands are half-open [low, high), so a score sitting exactly on a
// boundary always resolves to the higher band.
func MaturityLevel(overall float64) string {
	switch {
	case overall < 2:
		return "Nascent"
	case overall < 3:
		return "Emerging"
	case overall < 4:
		return "Established"
	default:
		return "Leading"
	}
}
