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


package triage

// Config holds the keyword sets the classifier scores against. Keywords are
// matched case-insensitively as substrings of the normalized filename and
// byte sample; multi-word keywords are allowed.
type Config struct {
	// DomainKeywords are positive relevance signals.
	DomainKeywords []string
	// OffDomainKeywords are negative signals, weighted twice as heavily
	// as positive ones.
	OffDomainKeywords []string
}

// DefaultConfig returns the built-in keyword sets for rodeo event data.
func DefaultConfig() Config {
	return Config{
		DomainKeywords: []string{
			"rodeo",
			"bull riding",
			"bull rider",
			"bareback",
			"saddle bronc",
			"steer wrestling",
			"barrel racing",
			"team roping",
			"tie-down roping",
			"breakaway",
			"pbr",
			"prca",
			"nfr",
			"rider",
			"bucking",
			"arena",
			"prediction",
			"odds",
			"payout",
			"prize pool",
			"placement",
			"win rate",
			"ride score",
		},
		OffDomainKeywords: []string{
			"invoice",
			"receipt",
			"purchase order",
			"recipe",
			"resume",
			"curriculum vitae",
			"mortgage",
			"insurance claim",
			"meeting minutes",
			"newsletter",
			"lorem ipsum",
			"timesheet",
			"payroll",
		},
	}
}

// clone returns deep copies of the keyword slices so a classifier never
// shares state with its caller.
func (c Config) clone() Config {
	out := Config{}
	if len(c.DomainKeywords) > 0 {
		out.DomainKeywords = make([]string, len(c.DomainKeywords))
		copy(out.DomainKeywords, c.DomainKeywords)
	}
	if len(c.OffDomainKeywords) > 0 {
		out.OffDomainKeywords = make([]string, len(c.OffDomainKeywords))
		copy(out.OffDomainKeywords, c.OffDomainKeywords)
	}
	return out
}
