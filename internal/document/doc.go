// Package document scans Markdown text into the runtime's document model:
// plain content, headings that double as navigation anchors, verbatim
// fences, and fenced runtime blocks whose label names a registered kind.
//
// The scanner only finds structure. Block bodies are parsed later by the
// handler registered for their kind, so a malformed body never stops a
// document from loading; only unterminated fences and misplaced `else`
// blocks produce a LoadError.
package document
