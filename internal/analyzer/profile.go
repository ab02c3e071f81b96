package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

// controlKeywords look like names to signature-shaped rules, as in "else if (x) {" or "return f(x);".
var controlKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {},
	"return": {}, "sizeof": {}, "new": {}, "else": {},
	"throw": {}, "delete": {}, "case": {}, "do": {}, "goto": {},
}

// regexProfile applies ordered line rules. The first non-empty capture group of a match is the name.
type regexProfile struct {
	functionRules []*regexp.Regexp
	classRules    []*regexp.Regexp
	dropKeywords  bool
}

func newRegexProfile(functionPatterns, classPatterns []string, dropKeywords bool) *regexProfile {
	return &regexProfile{
		functionRules: compileAll(functionPatterns),
		classRules:    compileAll(classPatterns),
		dropKeywords:  dropKeywords,
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}

// Extract scans text line by line with the rules of the requested kind.
func (profile *regexProfile) Extract(kind Kind, text string) []string {
	rules := profile.functionRules
	if kind == KindClass {
		rules = profile.classRules
	}
	if len(rules) == 0 {
		return nil
	}
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if profile.dropKeywords && isKeyword(leadingWord(line)) {
			continue
		}
		for _, rule := range rules {
			for _, match := range rule.FindAllStringSubmatch(line, -1) {
				name := firstGroup(match)
				if name == "" {
					continue
				}
				if profile.dropKeywords && isKeyword(name) {
					continue
				}
				names = append(names, name)
			}
		}
	}
	return names
}

func firstGroup(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

func isKeyword(word string) bool {
	_, found := controlKeywords[word]
	return found
}

func leadingWord(line string) string {
	trimmed := strings.TrimLeft(line, " \t}")
	end := strings.IndexFunc(trimmed, func(character rune) bool {
		return !(character == '_' || unicode.IsLetter(character) || unicode.IsDigit(character))
	})
	if end < 0 {
		return trimmed
	}
	return trimmed[:end]
}
