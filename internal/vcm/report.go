package vcm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ReportInput carries everything the markdown report needs. The output
// is a pure function of this struct: equal inputs produce byte-identical
// documents. GeneratedAt is included verbatim when set; when empty the
// report carries no timestamp at all.
type ReportInput struct {
	Catalog      *Catalog
	Result       *Result
	Initiatives  map[string][]Initiative
	ValueAtStake map[string]float64
	GeneratedAt  string
}

//
// assemble the downloadable markdown summary
//
func BuildMarkdownReport(in ReportInput) string {

	sections := []string{"# Value-Centered Maturity Assessment", ""}
	sections = append(sections, fmt.Sprintf("**Overall score:** %.1f", in.Result.Overall))
	sections = append(sections, fmt.Sprintf("**Maturity level:** %s", in.Result.Level))

	if total, ok := totalValueAtStake(in.Catalog, in.ValueAtStake); ok {
		sections = append(sections, fmt.Sprintf("**Estimated value at stake:** %s (PHP)", formatPHP(total)))
	}
	if in.GeneratedAt != "" {
		sections = append(sections, fmt.Sprintf("_Generated: %s_", in.GeneratedAt))
	}

	sections = append(sections, "\n---\n")

	for _, pillar := range in.Catalog.Pillars {
		score := in.Result.PillarScores[pillar.ID]
		sections = append(sections, formatPillarSection(pillar, score, in.Initiatives[pillar.ID], in.ValueAtStake))
		sections = append(sections, "")
	}

	sections = append(sections, "\n---\n")
	sections = append(sections, "These recommendations are illustrative placeholders. Replace them with your organization's guidance before sharing broadly.")

	return strings.Join(sections, "\n")
}

func formatPillarSection(pillar Pillar, score PillarScore, initiatives []Initiative, valueAtStake map[string]float64) string {

	lines := []string{
		fmt.Sprintf("## %s", pillar.Name),
		fmt.Sprintf("**Average score:** %.1f", score.Average),
	}

	if v, ok := valueAtStake[pillar.ID]; ok {
		lines = append(lines, fmt.Sprintf("**Estimated value at stake:** %s (PHP)", formatPHP(v)))
	}

	if len(initiatives) > 0 {
		lines = append(lines, "**Recommended initiatives:**")
		for _, item := range initiatives {
			lines = append(lines, fmt.Sprintf("- **%s** — %s", item.Title, item.Description))
		}
	}

	return strings.Join(lines, "\n")
}

// totalValueAtStake sums the per-pillar estimates, counting only pillars
// that exist in the catalog so stray entries cannot inflate the figure.
func totalValueAtStake(cat *Catalog, valueAtStake map[string]float64) (float64, bool) {
	found := false
	total := 0.0
	for _, pillar := range cat.Pillars {
		if v, ok := valueAtStake[pillar.ID]; ok {
			total += v
			found = true
		}
	}
	return total, found
}

// formatPHP renders an amount as whole pesos with thousands separators.
func formatPHP(amount float64) string {

	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	grouped := ""
	for len(digits) > 3 {
		grouped = "," + digits[len(digits)-3:] + grouped
		digits = digits[:len(digits)-3]
	}
	grouped = digits + grouped

	return "₱" + sign + grouped
}
