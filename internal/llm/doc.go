// Package llm implements the reply-generation providers behind the
// conversation.Generator interface: an OpenAI chat completion client and an
// AWS Bedrock (Claude) client. Neither retries on its own; provider failures
// surface verbatim to the orchestrator.
package llm
