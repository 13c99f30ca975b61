// Package compose turns untrusted generated descriptions into validated deck
// pages. It is the trust boundary between the generative service and the
// deterministic downstream stages: structural defects fail loudly, local
// defects are degraded (dropped elements, defaulted fields, clamped colours).
//
// The package also hosts the coordinate normaliser, which maps element
// positions between coordinate spaces, and the assembler, which rewrites
// asset references once enrichment has produced real files.
package compose
