// Package pkg provides the core libraries for karyoview, a viewer of
// chromosome ideograms and genomic coordinates for sequencing cases.
//
// # Overview
//
// karyoview turns a case (a set of individuals with their sex and analysis
// tracks) into one panel of chromosome ideograms per individual, and lets
// users navigate the genome with free-text coordinates such as
// "7:117120017-117308718" or "X:p11.1-q12". The pkg directory is organized
// into four areas:
//
//  1. Domain logic: [genome], [coord], [ideogram]
//  2. Orchestration: [pipeline], [io], [render]
//  3. Infrastructure: [cache], [store], [config], [observability], [errors]
//  4. External services: [ucsc], [server]
//
// # Architecture
//
// The typical data flow:
//
//	Case file (YAML/JSON)       UCSC cytoBand.txt
//	         ↓                          ↓
//	    [io] package               [store] package
//	         ↓                          ↓
//	    [ideogram] package  ←  cytoband reference
//	         ↓
//	    [render/sink] package
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Parse a coordinate and lay out a case:
//
//	q := coord.Parse("7:117120017-117308718")
//	fmt.Println(coord.Format(q)) // 7:117120017-117308718
//
//	kase, _ := io.ImportCase("case.yaml")
//	runner := pipeline.NewRunner(store.NewMemoryStore(), cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	res, _ := runner.Execute(ctx, kase, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("case.svg", res.Artifacts["svg"], 0644)
//
// # Main Packages
//
// [genome] - Chromosomes, sex codes, genome builds, cytoband references and
// the fixed drawing metrics of every chromosome.
//
// [coord] - The CoordinateText grammar. Parsing never fails outright:
// unparseable text yields the whole-genome query. [coord.Fields] keeps the
// text box, the chromosome selector and the cytoband selectors consistent.
//
// [ideogram] - Panel geometry: column count for a viewport, strip origins,
// outline and clip paths, track overlays and position markers.
//
// [pipeline] - Layout and render orchestration with caching, used by both
// the CLI and the HTTP server.
//
// [render/sink] - Output formats (SVG, JSON, PDF, PNG). PDF and PNG are
// converted from SVG by [render] using rsvg-convert.
//
// [store] - Cytoband reference storage: files for the CLI, MongoDB for
// shared deployments, memory for tests.
//
// [cache] - Content-addressed cache for references, layouts and artifacts
// with file, Redis and null backends.
//
// [ucsc] - Downloads cytoband tables from the UCSC goldenPath mirror.
//
// [server] - JSON HTTP API over the pipeline.
//
// # Testing
//
//	go test ./...               # All tests
//	go test ./pkg/coord/...     # Specific package
//	go test -run Example ./...  # Examples only
//
// [genome]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/genome
// [coord]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/coord
// [coord.Fields]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/coord#Fields
// [ideogram]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/ideogram
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/errors
// [ucsc]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/ucsc
// [server]: https://pkg.go.dev/github.com/matzehuels/karyoview/pkg/server
package pkg
