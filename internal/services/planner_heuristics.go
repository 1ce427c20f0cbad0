package services

import (
	"regexp"
	"strings"
)

// Fixed-intent phrase lists. Substring match on the lowercased query, first
// bucket wins.
var (
	offTopicExamplePhrases = []string{
		"how to make coffee",
		"how to cook",
		"recipe for",
		"how to bake",
		"cooking instructions",
		"how do i make",
		"how to prepare",
	}

	confusedPurposePhrases = []string{
		"what am i doing here",
		"what is this",
		"where am i",
		"what is this place",
		"what is this website",
		"what can i do here",
	}

	identityPhrases = []string{
		"who are you",
		"what are you",
		"who r u",
		"what r u",
		"tell me about yourself",
		"introduce yourself",
	}
)

var confusedUserPatterns = []*regexp.Regexp{
	regexp.MustCompile(`i don'?t know`),
	regexp.MustCompile(`not sure`),
	regexp.MustCompile(`help\s*me`),
	regexp.MustCompile(`what can you do`),
	regexp.MustCompile(`confused`),
	regexp.MustCompile(`i'?m lost`),
	regexp.MustCompile(`don'?t understand`),
	regexp.MustCompile(`how does this work`),
	regexp.MustCompile(`what should i ask`),
	regexp.MustCompile(`give me (some )?options`),
	regexp.MustCompile(`suggest something`),
}

var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`how are you`),
	regexp.MustCompile(`what'?s (the )?weather`),
	regexp.MustCompile(`tell (me )?a joke`),
	regexp.MustCompile(`sing (me )?a song`),
	regexp.MustCompile(`movie recommendation`),
	regexp.MustCompile(`book recommendation`),
	regexp.MustCompile(`play (a )?game`),
	regexp.MustCompile(`sports score`),
	regexp.MustCompile(`love advice`),
	regexp.MustCompile(`what should i eat`),
	regexp.MustCompile(`translate`),
	regexp.MustCompile(`math problem`),
	regexp.MustCompile(`homework help`),
}

var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<script`),
	regexp.MustCompile(`javascript:`),
	regexp.MustCompile(`onerror\s*=`),
	regexp.MustCompile(`select\s+.*\s+from`),
	regexp.MustCompile(`drop\s+table`),
	regexp.MustCompile(`union\s+select`),
	regexp.MustCompile(`insert\s+into`),
	regexp.MustCompile(`delete\s+from`),
	regexp.MustCompile(`--\s*$`),
	regexp.MustCompile(`'?\s*or\s*'?1'?\s*=\s*'?1`),
}

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(he|his|him|she|her|hers)\b`),
	regexp.MustCompile(`\b(it|its)\b`),
	regexp.MustCompile(`\b(they|their|them)\b`),
	regexp.MustCompile(`\b(this|that|these|those)\b`),
	regexp.MustCompile(`\bthe company\b`),
	regexp.MustCompile(`\bthis company\b`),
	regexp.MustCompile(`\bthat company\b`),
	regexp.MustCompile(`\bthe person\b`),
	regexp.MustCompile(`\bthe organization\b`),
}

var (
	nonLetterRe  = regexp.MustCompile(`[^a-z]`)
	vowelRe      = regexp.MustCompile(`[aeiou]`)
	entityRe     = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	keyboardRuns = []string{"qwert", "asdfg", "zxcvb", "12345", "abcde", "fghij"}
)

// entityStopwords are capitalized words that look like names but never are.
var entityStopwords = map[string]struct{}{
	"The": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	"Based": {}, "According": {}, "Source": {}, "Company": {},
	"Today": {}, "However": {}, "Therefore": {}, "Additionally": {},
}

func matchesAnyPhrase(queryLower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(queryLower, p) {
			return true
		}
	}
	return false
}

func matchesAnyPattern(queryLower string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(queryLower) {
			return true
		}
	}
	return false
}

// isGibberish runs a cheap language-plausibility check: character diversity,
// vowel ratio, and keyboard-run detection over the letters of the input.
func isGibberish(text string) bool {
	clean := nonLetterRe.ReplaceAllString(strings.ToLower(text), "")
	if len(clean) < 3 {
		return false
	}

	unique := map[rune]struct{}{}
	for _, r := range clean {
		unique[r] = struct{}{}
	}
	if float64(len(unique)) < float64(len(clean))*0.3 {
		return true
	}

	vowels := len(vowelRe.FindAllString(clean, -1))
	if float64(vowels) < float64(len(clean))*0.15 {
		return true
	}

	for _, run := range keyboardRuns {
		if strings.Contains(clean, run) {
			return true
		}
	}
	return false
}

// hasReferences reports whether the query contains pronouns or other
// anaphoric phrases that need resolving against conversation history.
func hasReferences(query string) bool {
	queryLower := strings.ToLower(query)
	return matchesAnyPattern(queryLower, referencePatterns)
}

// extractEntities pulls capitalized noun phrases (likely company or person
// names) from the first 600 characters of the text, de-duplicated in
// first-seen order, capped at 5.
func extractEntities(text string) []string {
	if len(text) > 600 {
		text = text[:600]
	}
	matches := entityRe.FindAllString(text, -1)

	seen := map[string]struct{}{}
	var entities []string
	for _, m := range matches {
		if _, stop := entityStopwords[m]; stop {
			continue
		}
		if len(m) <= 2 {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		entities = append(entities, m)
		if len(entities) == 5 {
			break
		}
	}
	return entities
}
