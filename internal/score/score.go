// Package score computes the derived completeness score for a draft's
// content. It is a pure function over the section texts and keeps no state.
package score

import (
	"strings"

	"draftvault/internal/models"
)

// Weights maps a section key to its contribution to the total score.
type Weights map[string]int

// Thresholds maps a section key to the minimum trimmed length at which the
// section counts as filled.
type Thresholds map[string]int

// DefaultWeights sums to 100 across the tracked sections.
var DefaultWeights = Weights{
	models.SectionSummary:    20,
	models.SectionEducation:  20,
	models.SectionExperience: 25,
	models.SectionProjects:   15,
	models.SectionSkills:     20,
}

// DefaultThresholds are the minimum lengths used when none are configured.
var DefaultThresholds = Thresholds{
	models.SectionSummary:    30,
	models.SectionEducation:  20,
	models.SectionExperience: 40,
	models.SectionProjects:   20,
	models.SectionSkills:     10,
}

// Result is the scorer output: a clamped total and the sections still below
// threshold, in canonical section order.
type Result struct {
	Total        int      `json:"total"`
	WeakSections []string `json:"weakSections"`
}

// Scorer evaluates content against a weight and threshold table.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
}

// NewScorer builds a scorer. Nil tables fall back to the defaults.
func NewScorer(weights Weights, thresholds Thresholds) *Scorer {
	if weights == nil {
		weights = DefaultWeights
	}
	if thresholds == nil {
		thresholds = DefaultThresholds
	}
	return &Scorer{weights: weights, thresholds: thresholds}
}

// Score evaluates the content. Each filled section adds its weight; the
// total is clamped to 100. Identical input always yields identical output.
func (s *Scorer) Score(content models.SectionContent) Result {
	res := Result{WeakSections: []string{}}
	for _, key := range models.SectionOrder {
		weight, tracked := s.weights[key]
		if !tracked {
			continue
		}
		if s.filled(key, content[key]) {
			res.Total += weight
		} else {
			res.WeakSections = append(res.WeakSections, key)
		}
	}
	if res.Total > 100 {
		res.Total = 100
	}
	return res
}

func (s *Scorer) filled(key, text string) bool {
	minLen, ok := s.thresholds[key]
	if !ok {
		minLen = 1
	}
	return len(strings.TrimSpace(text)) >= minLen
}
