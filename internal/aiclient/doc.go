// Package aiclient talks to OpenAI-compatible chat completion endpoints on
// behalf of configured AI profiles. It offers model discovery, a blocking
// completion and a cancellable streamed completion. Providers hosted on
// generativelanguage.googleapis.com are served through the Gemini SDK with
// the same error kinds.
package aiclient
