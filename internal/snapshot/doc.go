// Package snapshot encodes and decodes box state to the tabular snapshot
// format: a UTF-8 CSV with a header row naming the two languages, then one
// row per card carrying its compartment index. The same bytes are written
// to files, stored in the archive, and served by the export endpoint.
package snapshot
