// Package isolines builds the contour lines of a population pyramid
// stereogram: a survivors surface over a year × age grid, cut at regular
// levels and drawn as one polyline per level.
//
// 🚀 What does it do?
//
//	A build-time pipeline that turns a tidy year,age,value table into
//	clean, boundary-snapped isolines:
//		• Levels: step, 2·step, … up to the field maximum
//		• Extraction: column-crossing stitcher or marching squares
//		• Repair: run normalization, boundary snapping, fragment merging
//		• Escape hatches: a YAML override table with graph edits and
//		  Dijkstra anchoring for levels the heuristics get wrong
//		• Output: {level, points} / {level, runs} JSON, optional SQLite
//
// Everything runs single-threaded and deterministically; the same table
// always produces byte-identical output.
//
// Packages:
//
//	contour/     points, runs, level results, tolerances, normalization
//	field/       ScalarField, crossings, level selection, CSV loader
//	matching/    greedy and order-preserving optimal pairing
//	stitch/      column-crossing stitcher with one-column bridges
//	march/       marching-squares rings and boundary splitting
//	snap/        endpoint snapping onto the field frame
//	merge/       tangent-checked fragment merging
//	segment/     coordinate-keyed segment graph and path extraction
//	dijkstra/    shortest paths on the segment graph
//	override/    the override table and its graph surgery
//	anchor/      shortest-path anchoring and island trimming
//	pipeline/    configuration and per-level orchestration
//	contourio/   validation, JSON and SQLite persistence
//
// Quick ASCII sketch of one level (age grows downwards):
//
//	1900 ─────────── 1920
//	  ·  ·  ·  ·  ·
//	  ●──●──●──●──●      ← level 50
//	  ·  ·  ·  ·  ·
//
// The command lives in cmd/buildcontours:
//
//	go run ./cmd/buildcontours --config ./config/isolines.toml
package isolines
