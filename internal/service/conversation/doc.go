// Package conversation drives the voice conversation pipeline.
//
// One call moves linearly through transcribe, state load, prompt build, reply
// generation, speech synthesis, and log append. Each external stage has its
// own error identity so a caller can tell "I couldn't hear you" from "I
// couldn't think of a reply" from "I couldn't speak". There are no internal
// retries: the providers are cost-bearing external services and retry policy
// belongs to them or to the caller.
package conversation
