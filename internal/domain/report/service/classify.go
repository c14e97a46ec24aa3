package service

import (
	"regexp"
	"strings"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

// Classifier labels a piece of raw text. Implementations must be pure so the
// metrics engine can call them during a fold. The regex-based classifiers
// below are the baseline; anything smarter can be swapped in without touching
// the engine.
type Classifier interface {
	Classify(text string) string
}

// RegexClassifier assigns the label of the first matching rule, or the
// fallback label when nothing matches
type RegexClassifier struct {
	rules    []classifierRule
	fallback string
}

type classifierRule struct {
	label   string
	pattern *regexp.Regexp
}

// NewRegexClassifier builds a classifier from ordered label→pattern rules.
// Rule order matters: earlier rules win.
func NewRegexClassifier(fallback string, rules map[string]string, order []string) *RegexClassifier {
	c := &RegexClassifier{fallback: fallback}
	for _, label := range order {
		c.rules = append(c.rules, classifierRule{
			label:   label,
			pattern: regexp.MustCompile(`(?i)` + rules[label]),
		})
	}
	return c
}

// Classify returns the label of the first rule matching text
func (c *RegexClassifier) Classify(text string) string {
	for _, rule := range c.rules {
		if rule.pattern.MatchString(text) {
			return rule.label
		}
	}
	return c.fallback
}

// NewToneClassifier labels the overall register of a caption
func NewToneClassifier() *RegexClassifier {
	return NewRegexClassifier("neutral", map[string]string{
		"promotional":    `\b(sale|discount|promo|link in bio|shop now|giveaway|use code)\b`,
		"informative":    `\b(how to|tips|guide|tutorial|learn|thread|explained)\b`,
		"conversational": `\?|\b(what do you think|let me know|comment below|tag a friend)\b`,
	}, []string{"promotional", "informative", "conversational"})
}

// NewThemeClassifier labels the dominant subject of a caption
func NewThemeClassifier() *RegexClassifier {
	return NewRegexClassifier("lifestyle", map[string]string{
		"fitness": `\b(workout|gym|fitness|training|run|yoga)\b`,
		"travel":  `\b(travel|trip|flight|hotel|beach|wanderlust)\b`,
		"food":    `\b(recipe|food|cooking|restaurant|delicious|meal)\b`,
		"tech":    `\b(tech|software|coding|gadget|ai|startup)\b`,
		"fashion": `\b(outfit|fashion|style|ootd|wear|collection)\b`,
		"gaming":  `\b(game|gaming|stream|esports|playthrough)\b`,
	}, []string{"fitness", "travel", "food", "tech", "fashion", "gaming"})
}

// stopwords excluded from keyword frequency tables
var keywordStopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "their": {}, "there": {},
	"these": {}, "thing": {}, "think": {}, "today": {}, "where": {},
	"which": {}, "while": {}, "would": {}, "your": {}, "youre": {},
	"with": {}, "this": {}, "that": {}, "have": {}, "from": {},
	"they": {}, "will": {}, "what": {}, "when": {}, "just": {},
	"more": {}, "like": {}, "been": {}, "were": {}, "them": {},
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]{4,}`)

// extractKeywords pulls lowercased candidate keywords from text, skipping
// hashtag and mention tokens which get their own frequency tables
func extractKeywords(text string) []string {
	cleaned := hashtagPattern.ReplaceAllString(text, "")
	cleaned = mentionPattern.ReplaceAllString(cleaned, "")

	words := wordPattern.FindAllString(cleaned, -1)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if _, skip := keywordStopwords[w]; skip {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// qualitative derives the classifier-backed report section. Content tone is
// the most frequent tone label across records; dominant themes are the top
// three theme labels; brand mentions come from sponsored records only.
func (e *Engine) qualitative(records []entity.CanonicalRecord, brandMentions []string) entity.QualitativeInsights {
	tones := make([]string, 0, len(records))
	themes := make([]string, 0, len(records))
	var keywords []string

	for i := range records {
		text := records[i].Text
		if text == "" {
			continue
		}
		tones = append(tones, e.tone.Classify(text))
		themes = append(themes, e.theme.Classify(text))
		keywords = append(keywords, extractKeywords(text)...)
	}

	insights := entity.QualitativeInsights{
		DominantThemes:   []string{},
		BrandMentions:    TopN(brandMentions, topPostCount),
		KeywordFrequency: TopN(keywords, topTagCount),
	}

	if top := TopN(tones, 1); len(top) > 0 {
		insights.ContentTone = top[0].Value
	}
	for _, theme := range TopN(themes, 3) {
		insights.DominantThemes = append(insights.DominantThemes, theme.Value)
	}

	return insights
}
