// Package types provides type definitions for structured data used throughout the careerpilot engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"slices"
)

// SkillToken is a canonical skill identifier produced by the skills normalizer.
type SkillToken string

// SkillSet is a set of canonical tokens.
// A nil SkillSet is undefined; a non-nil empty SkillSet is legitimately empty.
type SkillSet map[SkillToken]struct{}

// NewSkillSet returns a defined set holding the given tokens.
func NewSkillSet(tokens ...SkillToken) SkillSet {
	set := make(SkillSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Defined reports whether the set was ever initialized.
func (s SkillSet) Defined() bool {
	return s != nil
}

// Has reports whether token is in the set.
func (s SkillSet) Has(token SkillToken) bool {
	_, ok := s[token]
	return ok
}

// Add inserts token into the set.
func (s SkillSet) Add(token SkillToken) {
	s[token] = struct{}{}
}

// Len returns the number of tokens.
func (s SkillSet) Len() int {
	return len(s)
}

// IntersectionSize counts tokens present in both sets.
func (s SkillSet) IntersectionSize(other SkillSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for t := range small {
		if large.Has(t) {
			n++
		}
	}
	return n
}

// Union returns a new set with the tokens of both sets.
func (s SkillSet) Union(other SkillSet) SkillSet {
	out := make(SkillSet, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

// Clone returns a copy. Cloning a nil set yields nil.
func (s SkillSet) Clone() SkillSet {
	if s == nil {
		return nil
	}
	out := make(SkillSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Sorted returns the tokens in ascending order.
func (s SkillSet) Sorted() []SkillToken {
	out := make([]SkillToken, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the set as a sorted array so output is stable.
func (s SkillSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of tokens. Tokens are taken as-is; run them
// through the normalizer first when they come from user input.
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var tokens []SkillToken
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	if tokens == nil {
		*s = nil
		return nil
	}
	*s = NewSkillSet(tokens...)
	return nil
}
