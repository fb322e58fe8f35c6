// Package coord parses and formats the compact genomic position notation
//
//	[chr]<chromosome>[:<start>-<end>[(+|-)<padding>]]
//
// and keeps the three surfaces of a position filter (chromosome selector,
// cytoband start/end selectors and the raw text field) consistent.
//
// # Parsing
//
// [Parse] never fails: malformed input yields [AnyQuery]. [ParseChecked]
// returns the same query together with the validation error a form may
// surface next to the field. Thousands separators are stripped before
// matching, so "chr7:1,000-2,000" and "7:1000-2000" are the same query.
//
// # Padding
//
// A trailing "+n" widens the interval by n on both sides, "-n" narrows it.
// The sign written in the text applies to the end; the start always moves
// in the opposite direction. Bounds are clamped at zero.
//
//	7:1000-2000+50  ->  7:950-2050
//	7:1000-2000-50  ->  7:1050-1950
//
// # Synchronization
//
// [Fields] bundles the three surfaces. Each edit method returns a new
// value in which the selection, the text and the [Query] agree, so a host
// form only has to render whatever comes back.
package coord
