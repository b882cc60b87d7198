// Package explain turns what the scoring service returns into something a
// person can read.
//
// The service reports one composite score and a prose explanation per task.
// [Reconstruct] recovers four sub-scores (urgency, importance, effort,
// dependency pressure) on a 0-100 scale. Each sub-score first tries a small
// ordered table of text patterns against the explanation; the first match
// wins. When nothing matches, a heuristic over the task's own fields is used
// instead. Explanations worded differently from what the patterns expect are
// therefore not an error: the heuristic takes over.
//
// [Justify] derives a short list of reasons ("urgent deadline", "short task",
// ...) from the same explanation.
//
// Both functions are pure. The reference date for deadline heuristics is an
// explicit argument so that results never depend on the wall clock.
package explain
