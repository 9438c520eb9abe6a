// Package pipeline turns a ScalarField into the persisted contour levels.
//
// For every selected level the stages run in a fixed order:
//
//  1. extract raw fragments (column stitcher or marching squares),
//  2. normalize them,
//  3. anchor them by shortest paths when the override table says so,
//     otherwise snap endpoints to the frame and merge fragments,
//  4. apply the override table's graph edits,
//  5. drop small runs of light levels.
//
// Levels that end up without runs are omitted. A Pipeline carries its
// configuration, the override table and a logger; all per-run state lives
// in the returned Result, so running twice on the same field gives the same
// output.
//
// Anchoring that cannot find every expected path is not an error. The level
// falls back to snap and merge followed by island trimming, and the event is
// reported as a TopologyAmbiguity diagnostic.
package pipeline
