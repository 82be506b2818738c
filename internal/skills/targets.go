// Package skills canonicalizes skill strings and builds weighted skill targets.
package skills

import (
	"cmp"
	"slices"

	"github.com/jonathan/careerpilot/internal/types"
)

const (
	// Weight constants for skill sources (requirement level)
	WeightRequired  = 1.0
	WeightPreferred = 0.5

	// Source constants
	SourceRequired  = "required"
	SourcePreferred = "preferred"
	SourceRole      = "role"
)

// Target is one skill a job or role asks for, with its importance.
type Target struct {
	Token  types.SkillToken `json:"token"`
	Weight float64          `json:"weight"`
	Source string           `json:"source"`
}

// BuildJobTargets builds weighted targets from a job's required and preferred sets.
// A skill listed in both keeps the required weight. Targets are sorted by weight
// descending, then token ascending.
func BuildJobTargets(required, preferred types.SkillSet) ([]Target, error) {
	if !required.Defined() {
		return nil, types.NewInvalidInput("required", "required skill set is undefined")
	}
	if !preferred.Defined() {
		return nil, types.NewInvalidInput("preferred", "preferred skill set is undefined")
	}

	skillMap := make(map[types.SkillToken]*skillInfo, len(required)+len(preferred))
	for token := range required {
		addOrUpdateSkill(skillMap, token, WeightRequired, SourceRequired)
	}
	for token := range preferred {
		addOrUpdateSkill(skillMap, token, WeightPreferred, SourcePreferred)
	}

	return sortedTargets(skillMap), nil
}

// BuildRoleTargets builds targets for a role. Importance keys are normalized
// with n; skills without an importance entry weigh 1.
func BuildRoleTargets(n *Normalizer, skills types.SkillSet, importance map[string]float64) []Target {
	weights := NormalizeImportance(n, importance)
	skillMap := make(map[types.SkillToken]*skillInfo, len(skills))
	for token := range skills {
		weight, ok := weights[token]
		if !ok {
			weight = 1
		}
		addOrUpdateSkill(skillMap, token, weight, SourceRole)
	}
	return sortedTargets(skillMap)
}

// NormalizeImportance re-keys an importance map by canonical token.
// Blank keys are dropped; when two keys fold together the larger weight wins.
func NormalizeImportance(n *Normalizer, importance map[string]float64) map[types.SkillToken]float64 {
	out := make(map[types.SkillToken]float64, len(importance))
	for raw, weight := range importance {
		token, err := n.Normalize(raw)
		if err != nil {
			continue
		}
		if existing, ok := out[token]; !ok || weight > existing {
			out[token] = weight
		}
	}
	return out
}

// Importance flattens targets into the lookup the gap analyzer consumes.
func Importance(targets []Target) map[types.SkillToken]float64 {
	out := make(map[types.SkillToken]float64, len(targets))
	for _, t := range targets {
		out[t.Token] = t.Weight
	}
	return out
}

// Tokens returns the targets' tokens as a set.
func Tokens(targets []Target) types.SkillSet {
	set := make(types.SkillSet, len(targets))
	for _, t := range targets {
		set.Add(t.Token)
	}
	return set
}

// skillInfo holds temporary information about a skill during building
type skillInfo struct {
	weight float64
	source string
}

// addOrUpdateSkill adds a skill to the map or updates it if it exists,
// taking the maximum weight when duplicates are found.
func addOrUpdateSkill(skillMap map[types.SkillToken]*skillInfo, token types.SkillToken, weight float64, source string) {
	existing, exists := skillMap[token]
	if !exists {
		skillMap[token] = &skillInfo{weight: weight, source: source}
		return
	}
	if weight > existing.weight {
		existing.weight = weight
		existing.source = source
	}
	// If weights are equal, prioritize source by: required > preferred > role
	if weight == existing.weight && getSourcePriority(source) > getSourcePriority(existing.source) {
		existing.source = source
	}
}

func sortedTargets(skillMap map[types.SkillToken]*skillInfo) []Target {
	targets := make([]Target, 0, len(skillMap))
	for token, info := range skillMap {
		targets = append(targets, Target{Token: token, Weight: info.weight, Source: info.source})
	}
	slices.SortFunc(targets, func(a, b Target) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.Token, b.Token)
	})
	return targets
}

// getSourcePriority returns a numeric priority for source types.
// Higher numbers indicate higher priority.
func getSourcePriority(source string) int {
	switch source {
	case SourceRequired:
		return 3
	case SourcePreferred:
		return 2
	case SourceRole:
		return 1
	default:
		return 0
	}
}
