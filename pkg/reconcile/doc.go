// Package reconcile decrements a fridge's inventory by the ingredients a
// cooked menu used.
//
// Each used entry is parsed for an amount, matched to the first plausible
// item by name, and subtracted with unit-aware rules. Nothing here fails:
// unmatched entries are skipped and unreadable amounts fall back to zero or
// one piece. Quantities only go down and never below zero.
package reconcile
