package llm

import "fmt"

// DefaultLanguage is the target language when none is configured.
const DefaultLanguage = "Chinese"

// TranslatePrompt returns the system instruction for translating an HTML fragment.
func TranslatePrompt(language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(`You are a professional translator. Translate the following HTML content into %s.

REQUIREMENTS:
1. Keep every HTML tag and the document structure unchanged
2. Translate only the text content
3. Do not translate code inside code blocks
4. Keep link URLs unchanged
5. Return the translated HTML directly, without any extra explanation`, language)
}

// SummarizePrompt returns the system instruction for summarizing an article.
func SummarizePrompt(language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(`You are a professional content summarizer. Summarize the following article.

REQUIREMENTS:
1. Write the summary in %s
2. Be concise and capture the core points of the article
3. Format the output as HTML; you may use <p>, <ul> and <li> tags
4. Keep the summary within 200 characters
5. Return only the summary HTML, without a "Summary" heading`, language)
}
