// Package io reads case files and writes layout documents.
//
// # Case Files
//
// A case lists the individuals whose chromosomes are drawn together. The
// YAML form follows the scout case configuration:
//
//	case_id: internal_id
//	genome_build: 37
//	samples:
//	  - sample_id: ADM1059A1
//	    sex: male
//	    chromograph_images:
//	      autozygous: cases/internal_id/ADM1059A1/autozygous_images
//	      coverage: cases/internal_id/ADM1059A1/coverage_images
//	      upd_regions: cases/internal_id/ADM1059A1/upd_regions_images
//	      roh: cases/internal_id/ADM1059A1/roh_images
//
// Each chromograph entry is a directory holding one image per chromosome.
// A sample may also list single-chromosome images under "tracks":
//
//	    tracks:
//	      - kind: coverage
//	        chromosome: "7"
//	        image: /uploads/coverage-7.png
//
// The JSON form uses the same keys. [ImportCase] picks the format from the
// file extension; [ReadCase] takes it explicitly.
//
// # Layout Documents
//
// [ExportJSON] writes a computed layout through the JSON sink in
// [github.com/matzehuels/karyoview/pkg/render/sink]. [ImportLayout] reads
// it back, so a layout can be rendered again without recomputing it.
package io
