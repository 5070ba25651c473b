// Package classify maps free chat text to a routing category plus a
// rewritten prompt carrying tool hints for the backend. Rules are ordered
// and typed: the math family is always evaluated before the weather family
// and the first matching rule wins, so a message matching both families
// classifies as math. Classification never fails; faults degrade to a
// non-routable result so the caller can always fall back to plain
// completion.
package classify
