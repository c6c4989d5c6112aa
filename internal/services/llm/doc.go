// Package llm wraps the OpenRouter chat-completions API for the remote
// decision oracle.
//
// The client forces JSON-only responses, retries transient failures with
// exponential backoff (honoring Retry-After), and decodes model output
// leniently: code fences and prose around the JSON payload are tolerated.
package llm
