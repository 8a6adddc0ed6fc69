// Package portfolio defines the record collected by the chat wizard and the
// helpers that parse raw answers into it. Data is a plain value: the
// conversation engine owns the live copy and hands out clones, while renderers
// treat whatever they receive as read-only input. Fields are written through
// explicit setters keyed by Field so the step script never needs reflection to
// find its target.
package portfolio
