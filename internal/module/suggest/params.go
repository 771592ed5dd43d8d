package suggest

import (
	"encoding/json"
	"strings"
)

// SearchParams is the structured object the extraction chain is asked to
// produce from a free-form dish description.
type SearchParams struct {
	IncludeKeywords  []string            `json:"include_keywords"`
	Synonyms         map[string][]string `json:"synonyms"`
	ExcludeKeywords  []string            `json:"exclude_keywords"`
	GuessedFoodNames []string            `json:"guessed_food_names"`
}

// Keywords returns the union of include keywords, all synonym values and
// guessed food names, deduplicated case-insensitively.
func (p SearchParams) Keywords() []string {
	seen := make(map[string]struct{})
	var keywords []string

	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return
		}
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, kw := range p.IncludeKeywords {
		add(kw)
	}
	for _, syns := range p.Synonyms {
		for _, s := range syns {
			add(s)
		}
	}
	for _, name := range p.GuessedFoodNames {
		add(name)
	}
	return keywords
}

// ParseSearchParams extracts a SearchParams object from raw model output.
// The output may wrap the JSON in a fenced block or surround it with prose;
// on any parse failure the zero value is returned so the turn proceeds
// with empty parameters instead of failing.
func ParseSearchParams(raw string) SearchParams {
	text := strings.TrimSpace(raw)

	if fenced := extractFencedBlock(text); fenced != "" {
		text = fenced
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return SearchParams{}
	}

	var params SearchParams
	if err := json.Unmarshal([]byte(text[start:end+1]), &params); err != nil {
		return SearchParams{}
	}
	return params
}

func extractFencedBlock(text string) string {
	open := strings.Index(text, "```")
	if open == -1 {
		return ""
	}

	rest := text[open+3:]
	if newline := strings.Index(rest, "\n"); newline != -1 {
		// Skip a language tag such as "json" on the fence line.
		rest = rest[newline+1:]
	}

	closing := strings.Index(rest, "```")
	if closing == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:closing])
}
