// Package types provides type definitions for structured data used throughout the careerpilot engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// SeniorityTier orders career levels. The zero value means unknown.
type SeniorityTier int

const (
	TierUnknown SeniorityTier = iota
	TierEntry
	TierMid
	TierSenior
	TierLead
)

var tierNames = map[SeniorityTier]string{
	TierUnknown: "unknown",
	TierEntry:   "entry",
	TierMid:     "mid",
	TierSenior:  "senior",
	TierLead:    "lead",
}

// tierAliases also accepts the course levels used by the course catalog.
var tierAliases = map[string]SeniorityTier{
	"entry":        TierEntry,
	"junior":       TierEntry,
	"beginner":     TierEntry,
	"intern":       TierEntry,
	"mid":          TierMid,
	"intermediate": TierMid,
	"senior":       TierSenior,
	"advanced":     TierSenior,
	"lead":         TierLead,
	"principal":    TierLead,
}

func (t SeniorityTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseSeniorityTier parses a tier name or course level, case-insensitively.
func ParseSeniorityTier(s string) (SeniorityTier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" || key == "unknown" {
		return TierUnknown, nil
	}
	if tier, ok := tierAliases[key]; ok {
		return tier, nil
	}
	return TierUnknown, NewInvalidInput("seniority", fmt.Sprintf("unknown seniority tier %q", s))
}

// MarshalText implements encoding.TextMarshaler.
func (t SeniorityTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SeniorityTier) UnmarshalText(text []byte) error {
	tier, err := ParseSeniorityTier(string(text))
	if err != nil {
		return err
	}
	*t = tier
	return nil
}

// TierForYears infers a candidate tier from years of experience.
func TierForYears(years float64) SeniorityTier {
	switch {
	case years < 2:
		return TierEntry
	case years < 5:
		return TierMid
	case years < 8:
		return TierSenior
	default:
		return TierLead
	}
}
