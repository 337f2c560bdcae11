// Package deanon estimates how many transaction kernels can be attributed
// to a single transaction.
//
// # Method
//
// Mimblewimble aggregation hides which kernel belongs to which of the
// transactions that were merged. A node that logs transactions before they
// are aggregated undoes part of that mixing:
//
//   - Round 0: a record with exactly one kernel attributes that kernel.
//   - Elimination: a record whose kernels are all attributed except one
//     attributes the remaining one.
//
// The Engine runs round 0 and then a fixed number of elimination passes
// (two by default), reporting the number of attributed kernels in the
// attempted set after each of them. These three checkpoints are the
// statistics the analysis has always published. WithConvergence keeps
// running passes until one adds nothing, which only ever appends
// checkpoints.
//
// The estimate is a heuristic. Order matters inside a pass: a kernel
// attributed by one record is already known to the records after it.
//
// # Usage
//
//	engine := deanon.NewEngine()
//	result := engine.Analyze(records, attempted)
//	fmt.Println(result.Total, result.Deanon1(), result.Deanon2(), result.Deanon3())
package deanon
