package rewrite

import "regexp"

// promptTagPattern matches <prompt>...</prompt> regions:
//   - case-insensitive tags (<PROMPT>, <Prompt>)
//   - opening tags with attributes (<prompt id="1">)
//   - content spanning multiple lines (s flag)
//   - non-greedy capture, so the first closing tag wins
var promptTagPattern = regexp.MustCompile(`(?is)<prompt[^>]*>(.*?)</prompt>`)

// ExtractPromptContent returns the content of the first <prompt> tag pair.
// The second return value is false when no tags are present.
func ExtractPromptContent(text string) (string, bool) {
	match := promptTagPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ExtractAllPromptContents returns the contents of every <prompt> tag pair,
// in order of appearance. Returns nil when none are found.
func ExtractAllPromptContents(text string) []string {
	matches := promptTagPattern.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return nil
	}
	contents := make([]string, 0, len(matches))
	for _, m := range matches {
		contents = append(contents, m[1])
	}
	return contents
}

// HasPromptTags reports whether text contains a <prompt>...</prompt> pair.
func HasPromptTags(text string) bool {
	return promptTagPattern.MatchString(text)
}

// WrapPrompt wraps a prompt in the tags the rewrite instructions reference.
func WrapPrompt(prompt string) string {
	return "<prompt>" + prompt + "</prompt>"
}
