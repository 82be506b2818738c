package scoring

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jonathan/careerpilot/internal/features"
)

// suggestKeywordTarget is the skill count below which the keyword tip appears.
const suggestKeywordTarget = 5

// Suggestion is a resume improvement tip with the ATS points it could win.
type Suggestion struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Component     string  `json:"component"`
	PotentialGain float64 `json:"potential_gain"`
}

// Suggestions derives improvement tips from resume features, largest potential gain first.
func Suggestions(f *features.ResumeFeatures) []Suggestion {
	if f == nil {
		return nil
	}

	var out []Suggestion

	if len(f.MissingSections) > 0 {
		out = append(out, Suggestion{
			Title:         "Complete your sections",
			Description:   fmt.Sprintf("Missing: %s", strings.Join(f.MissingSections, ", ")),
			Component:     ComponentStructure,
			PotentialGain: (1 - clamp01(f.SectionCompleteness)) * atsStructureWeight,
		})
	}

	if f.QuantifiedAchievementRatio < 1 {
		out = append(out, Suggestion{
			Title:         "Quantify impact",
			Description:   "Add metrics like '+24% CTR' or 'reduced costs by $50K'",
			Component:     ComponentQuantified,
			PotentialGain: (1 - clamp01(f.QuantifiedAchievementRatio)) * atsQuantifiedWeight,
		})
	}

	skillCount := f.Skills.Len()
	if skillCount < suggestKeywordTarget {
		out = append(out, Suggestion{
			Title:         "Match keywords",
			Description:   "Include 5-7 skills matching your target job description",
			Component:     ComponentKeywords,
			PotentialGain: (1 - math.Min(float64(skillCount)/atsKeywordCap, 1)) * atsKeywordWeight,
		})
	}

	if f.RecencyWeight < 1 {
		out = append(out, Suggestion{
			Title:         "Refresh your experience",
			Description:   "Recent roles, freelance work or projects keep the resume current",
			Component:     ComponentRecency,
			PotentialGain: (1 - clamp01(f.RecencyWeight)) * atsRecencyWeight,
		})
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		if c := cmp.Compare(b.PotentialGain, a.PotentialGain); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	return out
}
