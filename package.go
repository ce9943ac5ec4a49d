//
// web service that runs the value-centered maturity (vcm) assessment -
// serves the question catalog for form rendering, tracks in-progress
// answer sessions, scores completed answer sets into pillar and overall
// maturity levels, recommends initiatives for each score band, and
// renders a downloadable markdown summary of the results.
//
// all state is per-session and in memory; nothing is persisted and no
// other services are called.
//
package vcmaturity
