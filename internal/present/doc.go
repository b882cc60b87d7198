// Package present turns ranked analysis results and the task queue into
// view models and renders them as styled terminal text or JSON.
//
// Building a view is pure: it reconstructs metrics and a justification for
// every entry and assigns display ranks, but never reorders the sequence it
// is given. Renderers only format a view.
package present
