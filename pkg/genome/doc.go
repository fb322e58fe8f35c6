// Package genome holds the immutable reference tables shared by the
// coordinate parser and the ideogram layout.
//
// # Chromosomes
//
// [Chromosome] names are restricted to the human reference set 1..22, X, Y
// and MT. Ordering always follows [ReferenceOrder]; "10" sorts after "9",
// not after "1". The sentinel [Any] marks a query without a chromosome
// constraint and is never a member of the reference set.
//
// # Cytobands
//
// A [CytobandReference] maps each chromosome of one genome build to its
// ordered band list. References are built once, from a UCSC cytoBand file
// via [ReadCytobands] or from a store, and never mutated afterwards.
// Accessors hand out copies.
//
// # Metrics
//
// [MetricsTable] carries the pixel geometry used to draw ideograms: the
// total strip length and the centromere waist position of every chromosome.
// [DefaultMetrics] returns the built-in table.
package genome
