// Package agent talks to the reasoning service that turns a transcript into
// entry mutations.
//
// A request carries a system prompt stamped with the current date, the
// current entries rendered one per line (see FormatUserContent), and four
// function tools. The response's tool calls are decoded into action.Result
// values that still address entries by short id; resolving those ids is
// the state package's job.
//
// The client speaks the OpenAI chat completions protocol, so any compatible
// gateway works. Failures are reported as *Error with a Kind of transport,
// api or parse.
package agent
