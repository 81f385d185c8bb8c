// Package agent runs a named, single-turn agent whose answers are typed.
//
// An [Agent] pairs a [Definition] (name, instructions, model) with a
// structured client for its output type. [Agent.Run] sends one message and
// returns a [Result] holding the decoded output, or the first error met.
package agent
