// Package plays orchestrates groups of interdependent tasks with live,
// multi-line progress rendering.
//
// A [Play] runs a set of [Task] values concurrently. Each task owns one row
// of a [termout.Canvas] status block and reports progress through the
// [termout.Formatter] bound to that row: "waiting..." while its dependencies
// run, a periodically refreshed elapsed time while it executes, and a final
// status when it finishes. Tasks start only after everything they depend on
// has completed; once any task fails, every task that has not started yet
// renders "aborted!" and never runs.
//
// Plays can be built in code from Task values, or loaded from a YAML [Plan]
// file that describes tasks as shell commands and timed waits.
//
// Usage:
//
//	plan, err := plays.LoadPlan("start.yaml")
//	if err != nil {
//	    return err
//	}
//	tasks, err := plan.Build()
//	if err != nil {
//	    return err
//	}
//	play, err := plays.New(plan.Name, tasks,
//	    plays.WithConcurrency(plan.Concurrency))
//	if err != nil {
//	    return err
//	}
//	if err := play.Run(ctx); err != nil {
//	    // Failures for all root-cause tasks, joined together.
//	}
package plays
