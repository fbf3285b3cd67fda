// Package scoring validates indicator payloads and turns them into a single
// 0-100 bubble risk score.
//
// Everything in this package is a pure function: identical input always
// produces the identical score, level, and summary. Side-effectful concerns
// (state, persistence, providers) live in the service packages.
package scoring
