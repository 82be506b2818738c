// Package skills canonicalizes skill strings and builds weighted skill targets.
package skills

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/jonathan/careerpilot/internal/types"
)

// defaultSynonyms maps common skill name variants to canonical tokens
var defaultSynonyms = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"golang":     "go",
	"go lang":    "go",
	"py":         "python",
	"node":       "node.js",
	"nodejs":     "node.js",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"postgres":   "postgresql",
	"ml":         "machine learning",
	"ci cd":      "ci/cd",
	"cicd":       "ci/cd",
	"sklearn":    "scikit-learn",
	"tailwind":   "tailwind css",
	"gcp":        "google cloud",
	"amazon aws": "aws",
}

// Normalizer folds raw skill strings into canonical tokens using an immutable synonym table.
type Normalizer struct {
	synonyms map[types.SkillToken]types.SkillToken
}

// current holds the process-wide normalizer. It is replaced wholesale, never mutated.
var current atomic.Pointer[Normalizer]

func init() {
	n, err := NewNormalizer(defaultSynonyms)
	if err != nil {
		panic(fmt.Sprintf("default synonym table is invalid: %v", err))
	}
	current.Store(n)
}

// NewNormalizer builds a normalizer from a synonym table.
// Keys and values are canonicalized, chains are resolved to their final target,
// and cycles are rejected.
func NewNormalizer(synonyms map[string]string) (*Normalizer, error) {
	table := make(map[types.SkillToken]types.SkillToken, len(synonyms))
	for _, from := range slices.Sorted(maps.Keys(synonyms)) {
		to := synonyms[from]
		key := canonicalize(from)
		value := canonicalize(to)
		if key == "" {
			return nil, types.NewInvalidInput("synonyms", "synonym key is empty")
		}
		if value == "" {
			return nil, types.NewInvalidInput("synonyms", fmt.Sprintf("synonym %q maps to an empty value", from))
		}
		if key == value {
			continue
		}
		if existing, ok := table[key]; ok && existing != value {
			return nil, types.NewInvalidInput("synonyms",
				fmt.Sprintf("synonym %q maps to both %q and %q", key, existing, value))
		}
		table[key] = value
	}

	resolved := make(map[types.SkillToken]types.SkillToken, len(table))
	for key := range table {
		target, err := resolve(table, key)
		if err != nil {
			return nil, err
		}
		if target != key {
			resolved[key] = target
		}
	}

	return &Normalizer{synonyms: resolved}, nil
}

// resolve follows a synonym chain to a token that is not itself a key.
func resolve(table map[types.SkillToken]types.SkillToken, key types.SkillToken) (types.SkillToken, error) {
	seen := map[types.SkillToken]struct{}{key: {}}
	token := key
	for {
		next, ok := table[token]
		if !ok {
			return token, nil
		}
		if _, loop := seen[next]; loop {
			return "", types.NewInvalidInput("synonyms", fmt.Sprintf("synonym cycle through %q", key))
		}
		seen[next] = struct{}{}
		token = next
	}
}

// Canonical returns raw lower-cased, trimmed and whitespace-collapsed, without
// applying synonyms.
func Canonical(raw string) types.SkillToken {
	return canonicalize(raw)
}

// canonicalize lower-cases, trims and collapses internal whitespace runs.
func canonicalize(raw string) types.SkillToken {
	return types.SkillToken(strings.Join(strings.Fields(strings.ToLower(raw)), " "))
}

// Normalize returns the canonical token for raw.
func (n *Normalizer) Normalize(raw string) (types.SkillToken, error) {
	token := canonicalize(raw)
	if token == "" {
		return "", types.NewInvalidInput("skill", "skill name is empty")
	}
	if canonical, ok := n.synonyms[token]; ok {
		return canonical, nil
	}
	return token, nil
}

// NormalizeAll folds a list of raw strings into a set, skipping blank entries.
// A nil list yields a nil (undefined) set.
func (n *Normalizer) NormalizeAll(raw []string) types.SkillSet {
	if raw == nil {
		return nil
	}
	set := make(types.SkillSet, len(raw))
	for _, r := range raw {
		token, err := n.Normalize(r)
		if err != nil {
			continue
		}
		set.Add(token)
	}
	return set
}

// Synonyms returns a copy of the resolved synonym table.
func (n *Normalizer) Synonyms() map[string]string {
	out := make(map[string]string, len(n.synonyms))
	for k, v := range n.synonyms {
		out[string(k)] = string(v)
	}
	return out
}

// Default returns the process-wide normalizer.
func Default() *Normalizer {
	return current.Load()
}

// LoadSynonyms builds a new table and publishes it as the process-wide normalizer.
// The previous table stays in effect when the new one is rejected.
func LoadSynonyms(synonyms map[string]string) error {
	n, err := NewNormalizer(synonyms)
	if err != nil {
		return err
	}
	current.Store(n)
	return nil
}

// DefaultSynonyms returns a copy of the built-in synonym table.
func DefaultSynonyms() map[string]string {
	out := make(map[string]string, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		out[k] = v
	}
	return out
}

// Normalize canonicalizes raw with the process-wide normalizer.
func Normalize(raw string) (types.SkillToken, error) {
	return Default().Normalize(raw)
}
