// Package editor runs user actions against a view.
//
// An [Editor] reads the current snapshot and selection from a [View], applies
// a pure [Transform] to get the next snapshot, diffs the two with
// [reconcile.Diff], and hands the ordered operations to the view. The view is
// the single source of the current snapshot: if a transform fails, nothing is
// applied and the session stays where it was.
//
// Mutations on one editor must not overlap. Callers that share an editor
// between goroutines serialise calls themselves; the HTTP server holds a
// mutex per session.
//
// Actions mirror the editor's hotkeys: add a vertex, colour the selection,
// connect or biconnect the selection, delete the selection, relax, and save
// or load the document through a text collaborator.
package editor
