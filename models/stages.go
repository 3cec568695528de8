// ABOUTME: Deal pipeline stages and their display progression
// ABOUTME: Linear stages map to a progress percentage; closed stages are absorbing
package models

import "math"

type Stage string

const (
	StageLead           Stage = "lead"
	StageQualification  Stage = "qualification"
	StageNeedsAnalysis  Stage = "needs_analysis"
	StageProposal       Stage = "proposal"
	StageNegotiation    Stage = "negotiation"
	StageContractReview Stage = "contract_review"
	StageClosedWon      Stage = "closed_won"
	StageClosedLost     Stage = "closed_lost"
)

// Stages lists every stage in pipeline order, closed stages last.
var Stages = []Stage{
	StageLead, StageQualification, StageNeedsAnalysis, StageProposal,
	StageNegotiation, StageContractReview, StageClosedWon, StageClosedLost,
}

// OpenStages is the linear progression used for progress display.
var OpenStages = Stages[:6]

func (s Stage) Valid() bool { return contains(Stages, s) }

// IsClosed reports whether the stage is one of the two terminal stages.
func (s Stage) IsClosed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Progress returns the display percentage for a stage: lead is 0,
// contract_review and closed_won are 100, closed_lost and unknown stages are 0.
func (s Stage) Progress() int {
	switch s {
	case StageClosedWon:
		return 100
	case StageClosedLost:
		return 0
	}
	for i, st := range OpenStages {
		if st == s {
			return int(math.Round(float64(i) / float64(len(OpenStages)-1) * 100))
		}
	}
	return 0
}

// Label renders a stage for humans, e.g. "needs analysis".
func (s Stage) Label() string {
	out := []byte(s)
	for i, b := range out {
		if b == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}
