// Package vcm holds the logic of the value-centered maturity assessment:
// the question catalog, the scoring of answers into pillar and overall
// maturity results, the initiative recommendations for each score band,
// and the markdown report built from all of the above.
//
// Everything in this package is a pure computation over in-memory input.
// The catalog is built (or loaded) once at startup and passed explicitly;
// nothing here keeps state between calls.
package vcm

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// OptionLevel is one step of the shared ordinal answer scale.
type OptionLevel struct {
	Label       string `json:"label"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation,omitempty"`
}

// Question is a single maturity question. All questions share the
// catalog's option set.
type Question struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// Pillar groups related questions under one maturity dimension.
type Pillar struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Catalog is the full questionnaire: ordered pillars plus the shared
// ordinal option set used to answer every question.
type Catalog struct {
	Pillars []Pillar      `json:"pillars"`
	Options []OptionLevel `json:"options"`
}

// Default returns the built-in questionnaire.
//
// The structure is intentionally data-driven to keep the serving layer
// simple; update the content here (or supply a catalog file) to evolve
// the assessment without touching handler code.
func Default() *Catalog {

	options := []OptionLevel{
		{Label: "Not started", Score: 1, Explanation: "No meaningful activity yet."},
		{Label: "Ad hoc or limited", Score: 2, Explanation: "Isolated efforts without consistent practice."},
		{Label: "Defined and repeatable", Score: 3, Explanation: "A documented approach applied consistently."},
		{Label: "Managed with metrics", Score: 4, Explanation: "Outcomes are measured and actively managed."},
		{Label: "Optimized and automated", Score: 5, Explanation: "Continuously improved and largely automated."},
	}

	return &Catalog{
		Options: options,
		Pillars: []Pillar{
			{
				ID:          "strategy",
				Name:        "Strategy",
				Description: "How clearly the organization aligns value goals with execution.",
				Questions: []Question{
					{ID: "strategy_alignment", Prompt: "Value objectives are clearly articulated and communicated across teams."},
					{ID: "strategy_prioritization", Prompt: "Initiatives are prioritized based on measurable impact and feasibility."},
				},
			},
			{
				ID:          "data",
				Name:        "Data & Tooling",
				Description: "Readiness of data, models, and platforms supporting decisions.",
				Questions: []Question{
					{ID: "data_quality", Prompt: "Operational and financial data is trustworthy and regularly validated."},
					{ID: "tooling_modern", Prompt: "Analytics and decision-support tooling are modern, scalable, and well adopted."},
				},
			},
			{
				ID:          "execution",
				Name:        "Execution",
				Description: "Discipline around delivering initiatives and measuring outcomes.",
				Questions: []Question{
					{ID: "execution_delivery", Prompt: "Projects are delivered predictably with clear ownership and timelines."},
					{ID: "execution_measurement", Prompt: "Benefits are tracked post-launch with feedback loops to improve future work."},
				},
			},
			{
				ID:          "culture",
				Name:        "Culture & Change",
				Description: "Engagement, incentives, and behaviors that sustain value-centric thinking.",
				Questions: []Question{
					{ID: "culture_adoption", Prompt: "Teams embrace value-centric decision making in daily routines."},
					{ID: "culture_training", Prompt: "Enablement programs build literacy in data, finance, and change management."},
				},
			},
		},
	}
}

//
// load a replacement questionnaire from a json file
//
// expected shape mirrors the Catalog type:
// {"options":[{"label":,"score":,"explanation":}], "pillars":[{"id":,"name":,"description":,"questions":[{"id":,"prompt":}]}]}
//
func Load(path string) (*Catalog, error) {

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read catalog file")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Errorf("catalog file %s is not valid json", path)
	}

	cat := &Catalog{}

	// extract the option scale
	options := gjson.GetBytes(data, "options")
	options.ForEach(func(_, opt gjson.Result) bool {
		cat.Options = append(cat.Options, OptionLevel{
			Label:       opt.Get("label").String(),
			Score:       int(opt.Get("score").Int()),
			Explanation: opt.Get("explanation").String(),
		})
		return true
	})

	// extract the pillars and their questions
	pillars := gjson.GetBytes(data, "pillars")
	pillars.ForEach(func(_, p gjson.Result) bool {
		pillar := Pillar{
			ID:          p.Get("id").String(),
			Name:        p.Get("name").String(),
			Description: p.Get("description").String(),
		}
		p.Get("questions").ForEach(func(_, q gjson.Result) bool {
			pillar.Questions = append(pillar.Questions, Question{
				ID:     q.Get("id").String(),
				Prompt: q.Get("prompt").String(),
			})
			return true
		})
		cat.Pillars = append(cat.Pillars, pillar)
		return true
	})

	if err := cat.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid catalog in %s", path)
	}

	return cat, nil
}

// Validate checks the structural rules every catalog must satisfy:
// at least one pillar, every pillar has questions, question ids are
// unique across the catalog, and the option scale has at least two
// levels with strictly ascending scores and unique labels.
func (c *Catalog) Validate() error {

	if len(c.Pillars) == 0 {
		return errors.New("catalog has no pillars")
	}
	if len(c.Options) < 2 {
		return errors.New("option set needs at least two levels")
	}

	seenLabels := map[string]bool{}
	for i, opt := range c.Options {
		if opt.Label == "" {
			return errors.Errorf("option %d has no label", i)
		}
		if seenLabels[opt.Label] {
			return errors.Errorf("duplicate option label %q", opt.Label)
		}
		seenLabels[opt.Label] = true
		if i > 0 && opt.Score <= c.Options[i-1].Score {
			return errors.Errorf("option scores must be strictly ascending, %q breaks the order", opt.Label)
		}
	}

	seenQuestions := map[string]bool{}
	for _, pillar := range c.Pillars {
		if pillar.ID == "" {
			return errors.New("pillar with empty id")
		}
		if len(pillar.Questions) == 0 {
			return errors.Errorf("pillar %q has no questions", pillar.ID)
		}
		for _, q := range pillar.Questions {
			if q.ID == "" {
				return errors.Errorf("pillar %q contains a question with no id", pillar.ID)
			}
			if seenQuestions[q.ID] {
				return errors.Errorf("duplicate question id %q", q.ID)
			}
			seenQuestions[q.ID] = true
		}
	}

	return nil
}

// OptionScore converts an answer label to its ordinal score.
func (c *Catalog) OptionScore(label string) (int, bool) {
	for _, opt := range c.Options {
		if opt.Label == label {
			return opt.Score, true
		}
	}
	return 0, false
}

// HasQuestion reports whether the catalog contains a question with the id.
func (c *Catalog) HasQuestion(id string) bool {
	for _, pillar := range c.Pillars {
		for _, q := range pillar.Questions {
			if q.ID == id {
				return true
			}
		}
	}
	return false
}

// QuestionCount is the total number of questions across all pillars.
func (c *Catalog) QuestionCount() int {
	n := 0
	for _, pillar := range c.Pillars {
		n += len(pillar.Questions)
	}
	return n
}

// ScoreBounds returns the lowest and highest scores in the option set.
func (c *Catalog) ScoreBounds() (min, max int) {
	return c.Options[0].Score, c.Options[len(c.Options)-1].Score
}
