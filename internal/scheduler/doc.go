// Package scheduler re-invokes the batch step on a fixed interval until the
// working dataset is fully processed or the schedule is stopped.
//
// The active flag lives in the state database so that a schedule started in
// one process can be inspected or stopped from another.
package scheduler
