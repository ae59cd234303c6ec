package api

import (
	"encoding/json"
	"fmt"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/orchestrate"
)

// ExtractRequest is the decoded shape of a POST /api/v1/extract body.
type ExtractRequest struct {
	Notes   NoteList        `json:"notes"`
	Options *RequestOptions `json:"options,omitempty"`
}

// NoteList accepts `notes` as either a bare string or an array of
// strings, per the documented programmatic contract.
type NoteList []string

// UnmarshalJSON tries a single string first, then a string array.
func (n *NoteList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*n = NoteList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("notes must be a string or an array of strings: %w", err)
	}
	*n = NoteList(list)
	return nil
}

// RequestOptions mirrors the contract's recognized option keys. Every
// scalar is a pointer so an absent key leaves the orchestrator default
// untouched; ApplyTo only overlays keys the caller actually sent.
type RequestOptions struct {
	UseLLM                  *bool                   `json:"useLLM"`
	UsePatterns             *bool                   `json:"usePatterns"`
	EnableDeduplication     *bool                   `json:"enableDeduplication"`
	EnablePreprocessing     *bool                   `json:"enablePreprocessing"`
	IncludeConfidence       *bool                   `json:"includeConfidence"`
	Targets                 []string                `json:"targets"`
	LearnedPatterns         []domain.LearnedPattern `json:"learnedPatterns"`
	EnableLearning          *bool                   `json:"enableLearning"`
	EnableFeedbackLoops     *bool                   `json:"enableFeedbackLoops"`
	MaxRefinementIterations *int                    `json:"maxRefinementIterations"`
	QualityThreshold        *float64                `json:"qualityThreshold"`
}

// ApplyTo overlays the options actually present in the request onto a
// base (normally orchestrate.DefaultOptions()).
func (o *RequestOptions) ApplyTo(base orchestrate.Options) orchestrate.Options {
	if o == nil {
		return base
	}
	if o.UseLLM != nil {
		base.UseLLM = o.UseLLM
	}
	if o.UsePatterns != nil {
		base.UsePatterns = *o.UsePatterns
	}
	if o.EnableDeduplication != nil {
		base.EnableDeduplication = *o.EnableDeduplication
	}
	if o.EnablePreprocessing != nil {
		base.EnablePreprocessing = *o.EnablePreprocessing
	}
	if o.IncludeConfidence != nil {
		base.IncludeConfidence = *o.IncludeConfidence
	}
	if len(o.Targets) > 0 {
		base.Targets = o.Targets
	}
	if len(o.LearnedPatterns) > 0 {
		base.LearnedPatterns = o.LearnedPatterns
	}
	if o.EnableLearning != nil {
		base.EnableLearning = *o.EnableLearning
	}
	if o.EnableFeedbackLoops != nil {
		base.EnableFeedbackLoops = *o.EnableFeedbackLoops
	}
	if o.MaxRefinementIterations != nil {
		base.MaxRefinementIterations = *o.MaxRefinementIterations
	}
	if o.QualityThreshold != nil {
		base.QualityThreshold = *o.QualityThreshold
	}
	return base
}
