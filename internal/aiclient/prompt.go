package aiclient

import "strings"

// Placeholders in UserMessageFormat.
const (
	TargetPlaceholder   = "$target_txt"
	OriginalPlaceholder = "$original_txt"
)

// UserMessageFormat wraps text that should be translated.
const UserMessageFormat = "Translate the following content into " + TargetPlaceholder +
	". Reply with the translation only.\n\n" + OriginalPlaceholder

// FormatUserMessage fills UserMessageFormat. Empty text yields an empty
// message so callers can abort.
func FormatUserMessage(target, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	msg := strings.Replace(UserMessageFormat, TargetPlaceholder, target, 1)
	return strings.Replace(msg, OriginalPlaceholder, text, 1)
}

const (
	zhPrompt = "你是一名专业翻译。请准确、通顺地翻译用户提供的文本，保留原文的格式和语气，不要添加解释。"
	enPrompt = "You are a professional translator. Translate the user's text accurately and fluently, " +
		"keep the original formatting and tone, and do not add explanations."

	zhWebPrompt = "你是一名专业翻译。用户会提供网页内容（纯文本或 HTML）。请翻译其中的可读文字，" +
		"保留 HTML 标签和结构，不要添加解释。"
	enWebPrompt = "You are a professional translator. The user sends web page content as plain text or HTML. " +
		"Translate the readable text, keep any HTML tags and structure intact, and do not add explanations."
)

// DefaultPrompt returns the system prompt for text translation in locale.
func DefaultPrompt(locale string) string {
	if locale == "zh" {
		return zhPrompt
	}
	return enPrompt
}

// DefaultWebPrompt returns the system prompt for page translation in locale.
func DefaultWebPrompt(locale string) string {
	if locale == "zh" {
		return zhWebPrompt
	}
	return enWebPrompt
}
