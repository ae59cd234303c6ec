// Package extract holds the per-category extractors: one Go file per
// category, each taking the combined note text (plus pathology types and
// reference dates where relevant) and returning populated domain entities
// with a confidence.
package extract

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ramihatou97/DCS-sub011/internal/dedup"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/temporal"
)

// matchPattern pairs a regex with an optional value template. A plain
// ontology pattern carries no template and contributes its raw match
// text as the mention's name; a learned pattern's ValueTemplate (e.g.
// "$1") is expanded against the match's submatches instead, the way a
// feedback-loop-curated pattern names the value it captures rather than
// the whole matched span.
type matchPattern struct {
	re            *regexp.Regexp
	valueTemplate string
}

// plainPatterns wraps a category's fixed ontology regexes as untemplated
// matchPatterns.
func plainPatterns(res []*regexp.Regexp) []matchPattern {
	out := make([]matchPattern, len(res))
	for i, re := range res {
		out[i] = matchPattern{re: re}
	}
	return out
}

// learnedPatternsFor compiles the enabled learned patterns registered for
// category into matchPatterns, skipping any pattern whose regex fails to
// compile -- a feedback-loop submission is operator-reviewed before being
// enabled but its regex is not guaranteed well-formed by construction.
func learnedPatternsFor(patterns []domain.LearnedPattern, category string) []matchPattern {
	var out []matchPattern
	for _, p := range patterns {
		if !p.Enabled || p.Field != category || p.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		out = append(out, matchPattern{re: re, valueTemplate: p.ValueTemplate})
	}
	return out
}

// collectMentions runs every pattern against text and returns one
// EntityMention per match, in source order, each already classified for
// temporal context and associated with its nearest date.
func collectMentions(text string, patterns []matchPattern, category string, refDates domain.ReferenceDates) []domain.EntityMention {
	var mentions []domain.EntityMention
	seen := make(map[int]struct{})

	for _, p := range patterns {
		locs := p.re.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range locs {
			start, end := loc[0], loc[1]
			if _, dup := seen[start]; dup {
				continue
			}
			seen[start] = struct{}{}

			name := text[start:end]
			if p.valueTemplate != "" {
				if expanded := p.re.ExpandString(nil, p.valueTemplate, text, loc); len(expanded) > 0 {
					name = string(expanded)
				}
			}

			ctx := temporal.ClassifyMention(text, start, end)
			date, source := temporal.AssociateDateWithEntity(text, start, end, refDates)
			if ctx.ReferenceType == domain.RefPOD && ctx.POD != nil && date == nil {
				if resolved := temporal.ResolveRelativeDate(*ctx.POD, refDates); resolved != nil {
					date = resolved
					source = domain.DatePODResolved
				}
			}

			mentions = append(mentions, domain.EntityMention{
				ID:         fmt.Sprintf("%s-%d", category, start),
				Name:       name,
				Position:   start,
				Date:       date,
				DateSource: source,
				Temporal:   ctx,
				Confidence: ctx.Confidence,
				Category:   category,
			})
		}
	}

	sort.SliceStable(mentions, func(i, j int) bool { return mentions[i].Position < mentions[j].Position })
	return mentions
}

// runCategoryPipeline executes the shared five-step pipeline: collect,
// classify+date (already done in collectMentions), partition, dedup
// new-events, link references.
func runCategoryPipeline(text string, patterns []matchPattern, category string, refDates domain.ReferenceDates) []domain.CanonicalEntity {
	mentions := collectMentions(text, patterns, category, refDates)
	return clusterAndLink(mentions, category)
}

func clusterAndLink(mentions []domain.EntityMention, category string) []domain.CanonicalEntity {
	var newEvents, references []domain.EntityMention
	for _, m := range mentions {
		if m.Temporal.IsReference {
			references = append(references, m)
		} else {
			newEvents = append(newEvents, m)
		}
	}

	canonicals := dedup.Cluster(newEvents, dedup.Options{MergeSameDate: true})
	canonicals, _ = dedup.LinkReferencesToEvents(references, canonicals, dedup.ProcedureSimilarity)
	return canonicals
}

// averageConfidence returns the mean confidence across canonicals, or 0
// when there are none.
func averageConfidence(canonicals []domain.CanonicalEntity) float64 {
	if len(canonicals) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range canonicals {
		sum += c.Confidence
	}
	return sum / float64(len(canonicals))
}

func toEntityList(canonicals []domain.CanonicalEntity) []domain.CanonicalEntity {
	if canonicals == nil {
		return []domain.CanonicalEntity{}
	}
	return canonicals
}
