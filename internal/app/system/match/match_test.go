package match

import (
	"testing"

	"github.com/MusaCap/faithlink360/internal/domain/models"
)

func TestSkillsOverlap(t *testing.T) {
	tests := []struct {
		volunteer string
		required  string
		want      bool
	}{
		{"Teaching", "Teaching", true},
		{"Teaching", "Teaching Assistant", true}, // required contains volunteer
		{"Teaching Assistant", "Teaching", true}, // volunteer contains required
		{"TEACHING", "teaching", true},           // case-insensitive
		{"  Teaching  ", "teaching", true},       // trimmed
		{"Music", "Teaching", false},
		{"", "Teaching", false},
		{"Teaching", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.volunteer+"/"+tt.required, func(t *testing.T) {
			got := SkillsOverlap(tt.volunteer, tt.required)
			if got != tt.want {
				t.Errorf("SkillsOverlap(%q, %q) = %v, want %v", tt.volunteer, tt.required, got, tt.want)
			}
		})
	}
}

func TestScore_Composition(t *testing.T) {
	v := &models.Volunteer{
		Skills:              []string{"Teaching"},
		PreferredMinistries: []string{"Youth"},
	}
	opp := &models.Opportunity{
		Ministry:       "Youth",
		SkillsRequired: []string{"Teaching"},
	}

	res := Score(v, opp)
	if res.MatchScore != 70 {
		t.Errorf("MatchScore = %d, want 70 (30 skill + 40 ministry)", res.MatchScore)
	}
	if len(res.MatchingSkills) != 1 || res.MatchingSkills[0] != "Teaching" {
		t.Errorf("MatchingSkills = %v", res.MatchingSkills)
	}
	if len(res.MatchingMinistries) != 1 || res.MatchingMinistries[0] != "Youth" {
		t.Errorf("MatchingMinistries = %v", res.MatchingMinistries)
	}
}

func TestScore_ClampsAt100(t *testing.T) {
	v := &models.Volunteer{
		Skills:              []string{"Teaching", "Music", "Sound"},
		PreferredMinistries: []string{"Worship"},
	}
	opp := &models.Opportunity{
		Ministry:       "Worship",
		SkillsRequired: []string{"Teaching", "Music", "Sound"},
	}

	// 3*30 + 40 = 130 before clamping.
	res := Score(v, opp)
	if res.MatchScore != 100 {
		t.Errorf("MatchScore = %d, want 100", res.MatchScore)
	}
}

func TestScore_EmptyVolunteer(t *testing.T) {
	res := Score(&models.Volunteer{}, &models.Opportunity{})
	if res.MatchScore != 0 {
		t.Errorf("MatchScore = %d, want 0", res.MatchScore)
	}
	if res.MatchingSkills == nil || res.MatchingMinistries == nil {
		t.Error("matching slices should be empty, not nil")
	}
	if len(res.MatchingSkills) != 0 || len(res.MatchingMinistries) != 0 {
		t.Errorf("unexpected matches: %+v", res)
	}
}

func TestScore_BackgroundCheckBonus(t *testing.T) {
	tests := []struct {
		name     string
		required bool
		state    string
		want     int
	}{
		{"required and approved", true, models.BackgroundCheckApproved, 20},
		{"required but pending", true, models.BackgroundCheckPending, 0},
		{"required but expired", true, models.BackgroundCheckExpired, 0},
		{"not required, approved", false, models.BackgroundCheckApproved, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &models.Volunteer{BackgroundCheck: tt.state}
			opp := &models.Opportunity{BackgroundCheckRequired: tt.required}
			res := Score(v, opp)
			if res.MatchScore != tt.want {
				t.Errorf("MatchScore = %d, want %d", res.MatchScore, tt.want)
			}
		})
	}
}

func TestScore_OneVolunteerSkillMatchesManyRequirements(t *testing.T) {
	// "Teaching" overlaps both requirements but is counted once.
	v := &models.Volunteer{Skills: []string{"Teaching"}}
	opp := &models.Opportunity{
		SkillsRequired: []string{"Teaching Assistant", "Teaching Lead"},
	}

	res := Score(v, opp)
	if res.MatchScore != 30 {
		t.Errorf("MatchScore = %d, want 30", res.MatchScore)
	}
	if len(res.MatchingSkills) != 1 {
		t.Errorf("MatchingSkills = %v, want one entry", res.MatchingSkills)
	}
}

func TestScore_MinistryIsExactEquality(t *testing.T) {
	v := &models.Volunteer{PreferredMinistries: []string{"Youth Outreach"}}
	opp := &models.Opportunity{Ministry: "Youth"}

	// Substring is not enough for ministries.
	res := Score(v, opp)
	if res.MatchScore != 0 {
		t.Errorf("MatchScore = %d, want 0", res.MatchScore)
	}
}

func TestScore_Bounds(t *testing.T) {
	vols := []*models.Volunteer{
		{},
		{Skills: []string{"a", "b", "c", "d", "e"}},
		{Skills: []string{"Teaching"}, PreferredMinistries: []string{"Youth"}, BackgroundCheck: models.BackgroundCheckApproved},
	}
	opps := []*models.Opportunity{
		{},
		{Ministry: "Youth", SkillsRequired: []string{"a", "b", "c", "d", "e"}, BackgroundCheckRequired: true},
	}

	for _, v := range vols {
		for _, opp := range opps {
			res := Score(v, opp)
			if res.MatchScore < 0 || res.MatchScore > MaxScore {
				t.Errorf("score out of bounds: %d for %+v vs %+v", res.MatchScore, v, opp)
			}
		}
	}
}

func TestScore_DuplicateEntriesScoreOnce(t *testing.T) {
	v := &models.Volunteer{
		Skills:              []string{"Teaching", "teaching", "  TEACHING  "},
		PreferredMinistries: []string{"Youth", "youth"},
	}
	opp := &models.Opportunity{
		Ministry:       "Youth",
		SkillsRequired: []string{"Teaching"},
	}

	res := Score(v, opp)
	if len(res.MatchingSkills) != 1 {
		t.Errorf("MatchingSkills = %v, want the skill once", res.MatchingSkills)
	}
	if len(res.MatchingMinistries) != 1 {
		t.Errorf("MatchingMinistries = %v, want the ministry once", res.MatchingMinistries)
	}
	if res.MatchScore != SkillPoints+MinistryPoints {
		t.Errorf("MatchScore = %d, want %d", res.MatchScore, SkillPoints+MinistryPoints)
	}
}
