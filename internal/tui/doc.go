// Package tui implements the interactive terminal interface: a task queue
// with an add form, strategy switching, and a recommendations panel fed by
// the analysis orchestrator.
//
// The model follows the Elm architecture used by bubbletea. Analysis
// requests run as commands off the UI loop and report back with
// [analysisDoneMsg]; the queue and orchestrator are shared by pointer and
// guard their own state.
package tui
