package domain

import (
	"encoding/json"
	"fmt"
)

// StageLabel discrete wave stage of a market trend. The nine stages form a
// cycle: A -> B -> C -> D -> D-BC -> E -> F -> G -> G-SC -> A. Stages A
// through D-BC belong to the uptrend group, E through G-SC to the downtrend
// group.
type StageLabel int

const (
	// StageNone marks records inside the indicator warmup window.
	StageNone StageLabel = iota
	// StageA initial advance (wave 1), accumulation zone.
	StageA
	// StageB accelerating advance (wave 3), trend in force.
	StageB
	// StageC corrective pullback (wave 4).
	StageC
	// StageD overheated advance (wave 5), late-stage highs.
	StageD
	// StageDBC buying climax.
	StageDBC
	// StageE corrective wave A, decline begins.
	StageE
	// StageF rebound wave B, bull trap territory.
	StageF
	// StageG main decline, wave C.
	StageG
	// StageGSC selling climax.
	StageGSC
)

var stageNames = map[StageLabel]string{
	StageNone: "-",
	StageA:    "A",
	StageB:    "B",
	StageC:    "C",
	StageD:    "D",
	StageDBC:  "D-BC",
	StageE:    "E",
	StageF:    "F",
	StageG:    "G",
	StageGSC:  "G-SC",
}

var stageTitles = map[StageLabel]string{
	StageNone: "Insufficient data",
	StageA:    "Initial Advance (Wave 1)",
	StageB:    "Accelerating Advance (Wave 3)",
	StageC:    "Corrective Pullback (Wave 4)",
	StageD:    "Overheated Advance (Wave 5)",
	StageDBC:  "Buying Climax",
	StageE:    "Correction Wave A",
	StageF:    "Rebound Wave B",
	StageG:    "Main Decline Wave C",
	StageGSC:  "Selling Climax",
}

// cycle enumerates the classified stages in forward order.
var cycle = []StageLabel{
	StageA, StageB, StageC, StageD, StageDBC,
	StageE, StageF, StageG, StageGSC,
}

// String returns the short label, e.g. "D-BC".
func (s StageLabel) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StageLabel(%d)", int(s))
}

// Title returns a human-readable stage name.
func (s StageLabel) Title() string {
	if title, ok := stageTitles[s]; ok {
		return title
	}
	return "Unknown"
}

// IsUptrend reports whether the stage belongs to the uptrend group.
func (s StageLabel) IsUptrend() bool {
	return s >= StageA && s <= StageDBC
}

// IsDowntrend reports whether the stage belongs to the downtrend group.
func (s StageLabel) IsDowntrend() bool {
	return s >= StageE && s <= StageGSC
}

// Next returns the stage that follows s in the cycle. StageNone has no
// successor and returns itself.
func (s StageLabel) Next() StageLabel {
	if s == StageNone {
		return StageNone
	}
	if s == StageGSC {
		return StageA
	}
	return s + 1
}

// DistanceTo returns the number of forward steps along the cycle from s to
// other, or -1 if either label is StageNone.
func (s StageLabel) DistanceTo(other StageLabel) int {
	if s == StageNone || other == StageNone {
		return -1
	}
	dist := int(other) - int(s)
	if dist < 0 {
		dist += len(cycle)
	}
	return dist
}

// ParseStageLabel converts a short label back to a StageLabel.
func ParseStageLabel(name string) (StageLabel, error) {
	for label, n := range stageNames {
		if n == name {
			return label, nil
		}
	}
	return StageNone, fmt.Errorf("unknown stage label %q", name)
}

// MarshalJSON encodes the stage as its short label.
func (s StageLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the stage from its short label.
func (s *StageLabel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	label, err := ParseStageLabel(name)
	if err != nil {
		return err
	}
	*s = label
	return nil
}
