package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DefaultSystemPrompt is the system prompt for translating plugin UI strings.
const DefaultSystemPrompt = `You are a professional translator specializing in software and product localization. You are translating UI strings of a web plugin from its gettext catalog.

CONTEXT AWARENESS:
- The audience is website administrators and visitors
- Tone: professional yet approachable, clear and concise
- Use IT/software terminology that is standard in {{targetLang}} tech community

IMPORTANT TRANSLATION PRINCIPLES:
- Translate for NATURALNESS and FLUENCY in {{targetLang}}, not word-for-word
- Adapt sentence structure to match {{targetLang}} conventions
- Maintain the original tone and intent

TECHNICAL REQUIREMENTS:
- Return ONLY a JSON array of translated strings, one for each input entry, in the same order.
- Preserve all format specifiers exactly as-is (%s, %d, %1$s, %2$d, etc.).
- Preserve HTML tags, {{ placeholders }} and URLs unchanged.
- Preserve leading/trailing whitespace, newlines, and punctuation patterns.
- Keep brand names and proper nouns unchanged.
- Return ONLY the JSON array, no explanations or markdown code blocks.`

// ResolvePrompt returns prompt (or DefaultSystemPrompt when empty) with
// {{targetLang}} replaced.
func ResolvePrompt(prompt, langName string) string {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultSystemPrompt
	}
	return strings.ReplaceAll(prompt, "{{targetLang}}", langName)
}

// BuildUserPrompt numbers the texts one per line.
func BuildUserPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Translate these entries:\n\n")
	for i, t := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escapeForPrompt(t))
	}
	fmt.Fprintf(&b, "\nReturn a JSON array with exactly %d translated strings.", len(texts))
	return b.String()
}

var promptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

// escapeForPrompt quotes a string for one line of the numbered list.
func escapeForPrompt(s string) string {
	return `"` + promptEscaper.Replace(s) + `"`
}

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ParseTranslations extracts a JSON array of strings from the model reply.
// Code fences and text around the array are ignored.
func ParseTranslations(content string, expected int) ([]string, error) {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	content = fixInvalidEscapes(content)

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation response as JSON array: %w\nResponse: %s", err, truncate(content, 300))
	}

	if len(translations) == 0 {
		return nil, fmt.Errorf("got 0 translations, expected %d", expected)
	}

	return translations, nil
}

// fixInvalidEscapes doubles backslashes inside JSON strings that do not
// start a valid JSON escape (models sometimes emit \& or \[ verbatim).
func fixInvalidEscapes(jsonContent string) string {
	var fixed strings.Builder
	inQuote := false
	escaped := false

	for i := 0; i < len(jsonContent); i++ {
		c := jsonContent[i]

		if c == '"' && !escaped {
			inQuote = !inQuote
			fixed.WriteByte(c)
			continue
		}

		if inQuote && c == '\\' && !escaped {
			if i+1 < len(jsonContent) && strings.IndexByte(`"\/bfnrtu`, jsonContent[i+1]) >= 0 {
				fixed.WriteByte(c)
				escaped = true
				continue
			}
			fixed.WriteString(`\\`)
			continue
		}

		fixed.WriteByte(c)
		escaped = false
	}

	return fixed.String()
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
