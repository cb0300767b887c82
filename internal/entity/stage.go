package entity

import (
	"encoding/json"
	"fmt"
)

// Stage is a position in the sales pipeline.
type Stage string

const (
	StageTop      Stage = "TOP"
	StageMiddle   Stage = "MIDDLE"
	StageBottom   Stage = "BOTTOM"
	StagePostSale Stage = "POST_SALE"
)

// stageOrder is the single source of truth for pipeline ordering.
var stageOrder = [...]Stage{StageTop, StageMiddle, StageBottom, StagePostSale}

// Stages returns the pipeline stages in order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder[:])
	return out
}

// Index returns the position of s in the pipeline, or -1 for unknown values.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Next returns the stage after s. ok is false at POST_SALE or for unknown stages.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(stageOrder)-1 {
		return s, false
	}
	return stageOrder[i+1], true
}

// Previous returns the stage before s. ok is false at TOP or for unknown stages.
func (s Stage) Previous() (Stage, bool) {
	i := s.Index()
	if i <= 0 {
		return s, false
	}
	return stageOrder[i-1], true
}

func ParseStage(v string) (Stage, error) {
	s := Stage(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown funnel stage %q", v)
	}
	return s, nil
}

func (s *Stage) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
