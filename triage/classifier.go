// Copyright 2025 RodeoAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package triage implements the keyword-based relevance pre-filter that runs
// before extraction. It reads only a fixed-size sample of the raw content, so
// classification time is bounded regardless of file size.
package triage

import (
	"fmt"
	"strings"

	"github.com/rodeoai/chute/core"
)

const (
	// defaultSampleBudget is how many leading raw bytes are inspected.
	defaultSampleBudget = 1000

	// offDomainWeight is how much heavier a negative keyword counts
	// than a positive one.
	offDomainWeight = 2

	relevantThreshold   = 2
	irrelevantThreshold = -2

	confidencePerPoint = 25
	maxConfidence      = 100
)

// Classifier scores filenames and content samples against immutable keyword
// sets. It is stateless after construction and safe for concurrent use.
type Classifier struct {
	domain       []string
	offDomain    []string
	sampleBudget int
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithSampleBudget overrides how many leading bytes of content are
// inspected. Values below 1 are ignored.
func WithSampleBudget(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.sampleBudget = n
		}
	}
}

// NewClassifier creates a Classifier from the given keyword config. The
// config is copied; later mutation of the caller's slices has no effect.
func NewClassifier(cfg Config, opts ...ClassifierOption) *Classifier {
	cfg = cfg.clone()
	c := &Classifier{
		domain:       lowerAll(cfg.DomainKeywords),
		offDomain:    lowerAll(cfg.OffDomainKeywords),
		sampleBudget: defaultSampleBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify scores the filename and the leading bytes of raw content.
//
// Each keyword counts once no matter how often it occurs. The score is
// domain matches minus twice the off-domain matches; a score of +2 or more
// is Relevant, -2 or less is Irrelevant, anything between is Uncertain.
// Undecodable content degrades to an empty sample rather than an error.
func (c *Classifier) Classify(filename string, raw []byte) core.TriageVerdict {
	sample := c.sampleText(raw)
	name := normalize(filename)

	domainHits, domainFromName := matchKeywords(c.domain, sample, name)
	offHits, offFromName := matchKeywords(c.offDomain, sample, name)

	score := len(domainHits) - offDomainWeight*len(offHits)

	label := core.TriageUncertain
	switch {
	case score >= relevantThreshold:
		label = core.TriageRelevant
	case score <= irrelevantThreshold:
		label = core.TriageIrrelevant
	}

	confidence := abs(score) * confidencePerPoint
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	var reasons []string
	if len(domainHits) > 0 {
		reasons = append(reasons, "matched domain keywords: "+strings.Join(domainHits, ", "))
	}
	if len(offHits) > 0 {
		reasons = append(reasons, "matched off-domain keywords: "+strings.Join(offHits, ", "))
	}
	if domainFromName || offFromName {
		reasons = append(reasons, "filename contributed to the score")
	}
	if len(domainHits) == 0 && len(offHits) == 0 {
		reasons = append(reasons, "no keywords matched")
	}
	reasons = append(reasons, fmt.Sprintf("score %d (%d domain, %d off-domain)",
		score, len(domainHits), len(offHits)))

	return core.TriageVerdict{
		Label:      label,
		Score:      score,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

// sampleText returns the leading bytes of raw as normalized text. Invalid
// UTF-8 sequences are dropped.
func (c *Classifier) sampleText(raw []byte) string {
	if len(raw) > c.sampleBudget {
		raw = raw[:c.sampleBudget]
	}
	return normalize(strings.ToValidUTF8(string(raw), " "))
}

// matchKeywords returns the keywords present in the sample or the filename,
// in keyword-set order, and whether the filename alone contributed a match.
func matchKeywords(keywords []string, sample, name string) (hits []string, fromName bool) {
	for _, kw := range keywords {
		inSample := strings.Contains(sample, kw)
		inName := strings.Contains(name, kw)
		if !inSample && !inName {
			continue
		}
		hits = append(hits, kw)
		if inName {
			fromName = true
		}
	}
	return hits, fromName
}

// normalize lowercases and collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = normalize(s)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
