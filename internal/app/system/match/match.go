// internal/app/system/match/match.go
//
// Package match scores how well a volunteer fits an opportunity, for
// ranking and display only. Scoring operates on already-loaded entities
// and touches no storage.
package match

import (
	"strings"

	"github.com/MusaCap/faithlink360/internal/domain/models"
)

// Scoring weights. The final score is clamped to MaxScore.
const (
	SkillPoints           = 30
	MinistryPoints        = 40
	BackgroundCheckPoints = 20
	MaxScore              = 100
)

// Result is the outcome of scoring one volunteer against one opportunity.
type Result struct {
	MatchScore         int      `json:"matchScore"`
	MatchingSkills     []string `json:"matchingSkills"`
	MatchingMinistries []string `json:"matchingMinistries"`
}

// SkillsOverlap reports whether a volunteer skill satisfies a required
// skill: either string contains the other as a case-insensitive substring.
// The looseness is deliberate, so "Teaching" matches "Teaching Assistant"
// and vice versa; swap this predicate to tighten or loosen matching
// without touching the scoring.
func SkillsOverlap(volunteerSkill, requiredSkill string) bool {
	a := strings.ToLower(strings.TrimSpace(volunteerSkill))
	b := strings.ToLower(strings.TrimSpace(requiredSkill))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Score computes the match between a volunteer and an opportunity.
//
// 30 points per distinct volunteer skill that overlaps at least one
// required skill, 40 points per preferred ministry equal to the
// opportunity's ministry (0 or 1, ministry being singular), and a 20-point
// bonus when the opportunity requires a background check and the
// volunteer's check is approved. Clamped to 100. A volunteer with nothing
// declared scores 0; that is a valid result, not an error.
func Score(v *models.Volunteer, opp *models.Opportunity) Result {
	res := Result{
		MatchingSkills:     []string{},
		MatchingMinistries: []string{},
	}

	for _, skill := range dedupeFold(v.Skills) {
		for _, required := range opp.SkillsRequired {
			if SkillsOverlap(skill, required) {
				res.MatchingSkills = append(res.MatchingSkills, skill)
				break
			}
		}
	}

	for _, ministry := range dedupeFold(v.PreferredMinistries) {
		if strings.EqualFold(strings.TrimSpace(ministry), strings.TrimSpace(opp.Ministry)) && opp.Ministry != "" {
			res.MatchingMinistries = append(res.MatchingMinistries, ministry)
		}
	}

	score := len(res.MatchingSkills)*SkillPoints + len(res.MatchingMinistries)*MinistryPoints
	if opp.BackgroundCheckRequired && v.BackgroundCheck == models.BackgroundCheckApproved {
		score += BackgroundCheckPoints
	}
	if score > MaxScore {
		score = MaxScore
	}
	res.MatchScore = score
	return res
}

// dedupeFold drops blank entries and case-insensitive repeats, keeping
// the first spelling of each, so a profile listing a skill twice scores
// it once.
func dedupeFold(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
