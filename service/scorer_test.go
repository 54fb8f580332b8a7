package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
)

func TestScoreQualification(t *testing.T) {
	meeting := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		q           models.Qualification
		meetingAt   *time.Time
		wantScore   int
		wantReasons []string
	}{
		{
			name:      "empty inputs score zero with no reasons",
			q:         models.Qualification{},
			wantScore: 0,
		},
		{
			name: "bant plus meeting plus one decision note",
			q: models.Qualification{
				NeedConfirmed:     true,
				TimelineConfirmed: true,
				BudgetConfirmed:   true,
				DecisionCriteria:  "x",
			},
			meetingAt: &meeting,
			wantScore: 80,
			wantReasons: []string{
				"Need confirmed (+25)",
				"Timeline confirmed (+20)",
				"Budget confirmed (+20)",
				"Meeting scheduled (+10)",
				"Decision clarity (+5)",
			},
		},
		{
			name: "decision clarity caps at 15",
			q: models.Qualification{
				DecisionCriteria: "criteria",
				DecisionProcess:  "process",
				PaperProcess:     "paper",
			},
			wantScore:   15,
			wantReasons: []string{"Decision clarity (+15)"},
		},
		{
			name: "blank notes do not count toward clarity",
			q: models.Qualification{
				DecisionCriteria: "   ",
				DecisionProcess:  "process",
			},
			wantScore:   5,
			wantReasons: []string{"Decision clarity (+5)"},
		},
		{
			name: "everything confirmed clamps to 100",
			q: models.Qualification{
				NeedConfirmed:      true,
				TimelineConfirmed:  true,
				BudgetConfirmed:    true,
				AuthorityConfirmed: true,
				DecisionCriteria:   "a",
				DecisionProcess:    "b",
				PaperProcess:       "c",
				ChampionIdentified: true,
				MustHaveFeatures:   []string{"sso"},
			},
			meetingAt: &meeting,
			wantScore: 100,
			wantReasons: []string{
				"Need confirmed (+25)",
				"Timeline confirmed (+20)",
				"Budget confirmed (+20)",
				"Authority confirmed (+15)",
				"Meeting scheduled (+10)",
				"Must-have features captured (+10)",
				"Decision clarity (+15)",
				"Champion identified (+5)",
			},
		},
		{
			name: "champion alone",
			q: models.Qualification{
				ChampionIdentified: true,
			},
			wantScore:   5,
			wantReasons: []string{"Champion identified (+5)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQualification(tt.q, tt.meetingAt)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("Score = %d, out of [0,100]", got.Score)
			}
			if len(tt.wantReasons) == 0 {
				if len(got.Reasons) != 0 {
					t.Errorf("Reasons = %v, want none", got.Reasons)
				}
			} else if !reflect.DeepEqual(got.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestScoreQualificationDeterministic(t *testing.T) {
	q := models.Qualification{
		NeedConfirmed:    true,
		DecisionCriteria: "notes",
		MustHaveFeatures: []string{"api", "sso"},
	}

	first := ScoreQualification(q, nil)
	for i := 0; i < 10; i++ {
		again := ScoreQualification(q, nil)
		if again.Score != first.Score || !reflect.DeepEqual(again.Reasons, first.Reasons) {
			t.Fatalf("run %d diverged: %v vs %v", i, again, first)
		}
	}

	// one reason per strictly-positive factor
	if len(first.Reasons) != 3 {
		t.Errorf("Reasons count = %d, want 3", len(first.Reasons))
	}
}
