// Package reconcile cross-references the lighting controller's device
// inventory against the smart-home accessory registry and reports
// categorized discrepancies.
//
// Matching is keyed on normalized names (lowercased, with spaces, hyphens,
// and underscores removed), with fuzzy near-miss detection via normalized
// Levenshtein similarity. Four independent passes run per reconciliation:
// devices missing from the registry, light accessories missing from the
// controller, near-matching names, and room assignment conflicts. The passes
// are not mutually exclusive - one device can appear in several categories.
//
// Everything in this package is a pure, synchronous computation: no I/O, no
// shared state, and no failure mode for well-formed inputs. Results are
// regenerated wholesale on each run rather than diffed incrementally.
package reconcile
