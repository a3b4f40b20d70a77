// Package dropdown implements the autocomplete selection list that floats next
// to a text input caret.
//
// A Controller owns a display buffer of candidates merged from one or more
// strategies, a cursor into that buffer, and a Surface: an ordered list of
// rendered rows that a host view composites over its own output. Candidates are
// deduplicated per strategy, capped at MaxCount, and appended without ever
// reordering rows that are already shown.
//
// Controllers are driven by a host event loop. Render is called whenever a
// strategy produces results, HandleKey and HandleClick route input events, and
// Update applies the deferred deactivation scheduled by a click commit. A
// Coordinator shared by all controllers of a session keeps at most one dropdown
// visible at a time, and a SurfaceRegistry lets controllers mounted on the same
// container reuse one surface.
package dropdown
