package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
)

// scorer weights, additive, evaluation order fixed so the reasons list is
// deterministic for identical inputs.
const (
	scoreNeedConfirmed      = 25
	scoreTimelineConfirmed  = 20
	scoreBudgetConfirmed    = 20
	scoreAuthorityConfirmed = 15
	scoreMeetingScheduled   = 10
	scoreMustHaveFeatures   = 10
	scoreDecisionNoteEach   = 5
	scoreDecisionClarityCap = 15
	scoreChampion           = 5
)

// ScoreResult is the output of the qualification scorer.
type ScoreResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// ScoreQualification computes the 0-100 lead score from BANT/MEDDICC inputs.
// Pure function: it must be re-run whenever any scoring input changes, and
// the result persisted together with those inputs. Factors contributing zero
// are omitted from the reasons.
func ScoreQualification(q models.Qualification, meetingAt *time.Time) ScoreResult {
	total := 0
	var reasons []string

	add := func(points int, label string) {
		total += points
		reasons = append(reasons, fmt.Sprintf("%s (+%d)", label, points))
	}

	if q.NeedConfirmed {
		add(scoreNeedConfirmed, "Need confirmed")
	}
	if q.TimelineConfirmed {
		add(scoreTimelineConfirmed, "Timeline confirmed")
	}
	if q.BudgetConfirmed {
		add(scoreBudgetConfirmed, "Budget confirmed")
	}
	if q.AuthorityConfirmed {
		add(scoreAuthorityConfirmed, "Authority confirmed")
	}
	if meetingAt != nil {
		add(scoreMeetingScheduled, "Meeting scheduled")
	}
	if len(q.MustHaveFeatures) > 0 {
		add(scoreMustHaveFeatures, "Must-have features captured")
	}

	clarity := 0
	for _, note := range []string{q.DecisionCriteria, q.DecisionProcess, q.PaperProcess} {
		if strings.TrimSpace(note) != "" {
			clarity++
		}
	}
	if clarity > 0 {
		bonus := clarity * scoreDecisionNoteEach
		if bonus > scoreDecisionClarityCap {
			bonus = scoreDecisionClarityCap
		}
		add(bonus, "Decision clarity")
	}

	if q.ChampionIdentified {
		add(scoreChampion, "Champion identified")
	}

	if total > 100 {
		total = 100
	}

	return ScoreResult{Score: total, Reasons: reasons}
}
