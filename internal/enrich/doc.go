// Package enrich runs the per-song source fallback chain.
//
// An Orchestrator holds an ordered list of stages. Stages tagged UntilGenres
// are consulted only while no canonical genre is known; stages tagged Always
// run regardless. Raw genre signals are folded through the genre taxonomy as
// they arrive, the first year found wins, the first URL found wins, and every
// stage that supplied data is credited in the provenance string.
package enrich
