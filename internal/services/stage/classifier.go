// Package stage implements the wave stage state machine and the history
// builder that folds it over a candle series.
package stage

import (
	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

// Climax thresholds: a volume spike combined with an extreme stochastic
// reading commits in a single step, bypassing hysteresis.
const (
	climaxOverboughtK = 80.0
	climaxOversoldK   = 20.0
)

// State is the hysteresis state threaded through the classification fold:
// the committed stage, the candidate stage currently gathering support, and
// how many consecutive steps have supported that candidate.
type State struct {
	Stage     domain.StageLabel
	Candidate domain.StageLabel
	Streak    int
}

// StepInput is a single timestep as seen by the classifier.
type StepInput struct {
	Snapshot *domain.IndicatorSnapshot
	// Close latest close price.
	Close float64
	// ShortRef short-term reference level (moving average of closes) used
	// by the buying-climax exit rule.
	ShortRef float64
}

// Classifier decides the next wave stage from the previous stage and the
// current indicator snapshot. It holds configuration only; all mutable
// state lives in State and is passed explicitly.
type Classifier struct {
	cfg config.AnalysisConfig
}

// NewClassifier creates a classifier. The configuration must already be
// validated.
func NewClassifier(cfg config.AnalysisConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Seed classifies the first step that has a complete indicator snapshot,
// using threshold comparisons only. It defaults to the uptrend group unless
// the oscillator unambiguously reads oversold.
func (c *Classifier) Seed(in StepInput) State {
	s := in.Snapshot
	var stage domain.StageLabel
	switch {
	case s.VolumeSpike && s.StochRSIK < climaxOversoldK:
		stage = domain.StageGSC
	case s.StochRSIK < climaxOversoldK:
		stage = domain.StageG
	case s.StochRSIK > climaxOverboughtK:
		stage = domain.StageD
	case s.StochRSIK > 50 && s.StochRSIK > s.StochRSID && s.HLT > 50:
		stage = domain.StageB
	case s.StochRSIK < s.StochRSID && s.HLT > 30 && s.HLT < 70:
		stage = domain.StageC
	default:
		stage = domain.StageA
	}
	return State{Stage: stage, Candidate: domain.StageNone, Streak: 0}
}

// Next advances the state machine by one timestep. Climax transitions are
// evaluated first and commit immediately; the ordinary transition to the
// cycle successor commits only after the entry condition has held for
// MinConsecutiveForTransition consecutive steps.
func (c *Classifier) Next(prev State, in StepInput) State {
	s := in.Snapshot

	if prev.Stage.IsUptrend() && prev.Stage != domain.StageDBC &&
		s.VolumeSpike && s.StochRSIK > climaxOverboughtK {
		return State{Stage: domain.StageDBC, Candidate: domain.StageNone, Streak: 0}
	}
	if prev.Stage.IsDowntrend() && prev.Stage != domain.StageGSC &&
		s.VolumeSpike && s.StochRSIK < climaxOversoldK {
		return State{Stage: domain.StageGSC, Candidate: domain.StageNone, Streak: 0}
	}

	candidate := prev.Stage.Next()
	if !c.entryConditionMet(prev.Stage, in) {
		return State{Stage: prev.Stage, Candidate: domain.StageNone, Streak: 0}
	}

	streak := 1
	if prev.Candidate == candidate {
		streak = prev.Streak + 1
	}
	if streak >= c.cfg.MinConsecutiveForTransition {
		return State{Stage: candidate, Candidate: domain.StageNone, Streak: streak}
	}
	return State{Stage: prev.Stage, Candidate: candidate, Streak: streak}
}

// entryConditionMet evaluates the boundary condition for leaving `from`
// toward its cycle successor. Thresholds follow the stage's position in the
// cycle, so at most one ordinary transition can fire per step.
func (c *Classifier) entryConditionMet(from domain.StageLabel, in StepInput) bool {
	s := in.Snapshot
	switch from {
	case domain.StageA:
		// trend ignition
		return s.StochRSIK > 50 && s.StochRSIK > s.StochRSID && s.HLT > 50
	case domain.StageB:
		// bearish stochastic cross before the range top
		return s.StochRSIK < s.StochRSID && s.HLT < 80
	case domain.StageC:
		// overheating after the pullback
		return s.StochRSIK > 80 && s.FearGreed > 70
	case domain.StageD:
		// euphoric extreme without the volume spike
		return s.FearGreed >= 85 && s.StochRSIK > 90
	case domain.StageDBC:
		// close under the short-term reference level
		return in.Close < in.ShortRef && s.StochRSIK < 50
	case domain.StageE:
		// relief bounce
		return s.StochRSIK > s.StochRSID && s.FearGreed >= 40
	case domain.StageF:
		// trap resolves downward
		return s.FearGreed < 30 && s.StochRSIK < 30
	case domain.StageG:
		// capitulation without the volume spike
		return s.FearGreed <= 10 && s.StochRSIK < 20
	case domain.StageGSC:
		// oscillator turns up off the low
		return s.StochRSIK > s.StochRSID && s.StochRSIK > climaxOversoldK
	default:
		return false
	}
}
