// Package dpdash decodes dpdash-convention interview identifiers of the form
// study-subject-dataType[-timeRange] into their components.
//
// Parsing is pure and deterministic. An identifier that does not follow the
// convention makes the interview unprocessable; callers skip it and move on
// rather than retrying, since reparsing the same name can never succeed.
package dpdash
