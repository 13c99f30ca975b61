// Package workflow is the orchestration engine of the builder: a retrying
// step runner, a bounded fan-out coordinator and an ordered stage pipeline,
// plus the two flows composed from them.
//
// The create flow turns a Markdown outline into a rendered deck with a
// single deck-level generation call; the convert flow rebuilds a deck from a
// directory of page images, analysing each page independently under the
// fan-out bound. Both tolerate partial failure inside a fan-out batch and
// abort only when every task in a batch fails.
//
// Pipeline observers (measures, drawers) attach through the option interface
// in the model subpackage.
package workflow
