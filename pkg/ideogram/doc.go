// Package ideogram computes the placement and outline geometry of
// chromosome ideogram strips and the image tracks stacked below them.
//
// # Columns
//
// A panel shows one individual. Its column count is a step function of the
// viewport width with breakpoints at 1555 and 1955 pixels ([ColumnsFor]).
// Chromosome i of the individual's effective set lands in column
// i mod columns and row i / columns ([Place]).
//
// # Outline
//
// Every strip is clipped by a rounded rectangle with an hourglass waist at
// the centromere. [OutlinePath] builds that contour and [ClipPath] returns
// the very same geometry, so the visible border and the clip region never
// drift apart.
//
// # Tracks
//
// Auxiliary images (autozygosity, coverage, UPD regions, ROH) sit at fixed
// vertical offsets below the ideogram. Offsets are distinct per [TrackKind]
// and all fit inside one row.
//
// All functions are deterministic. Element IDs derive from the individual
// and chromosome only.
package ideogram
