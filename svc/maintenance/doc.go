// Package maintenance runs work for every company.
//
// Runner.ForAll drives a function once per company with that company
// active. RecountUsers is a per-company job: Runner.EnqueueRecount fans it
// out to the queue and Jobs.RecountUsers executes it in the worker with the
// payload's company reloaded and active.
package maintenance
