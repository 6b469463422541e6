package openapifix

// Package openapifix edits large OpenAPI documents through a sequence of
// structural transformations:
//
// - Fragment injection (hydrate/): merge caller-supplied blocks into the
//   document without duplicating existing content
// - Placeholder translation (Translate): recursive dictionary substitution
//   over mapping keys and scalar strings
// - Identifier renaming (Rename) with full collision checking before any
//   mutation, plus $ref rewriting and dangling-pointer validation
// - An ordered, idempotent rule engine (rules/) for semantic corrections
//
// Design policy:
// - Keep only public APIs in the root package; put codecs under codec/,
//   the rule engine under rules/, injection under hydrate/, and the CLI
//   under cmd/openapifix.
// - Each phase takes the document, transforms it, and returns a report;
//   no phase retains a reference to the document afterwards.
// - Fatal conditions (collision, broken reference, failed convergence) are
//   detected before the document is handed back for persistence.
// - Prefer black-box testing against public APIs.
