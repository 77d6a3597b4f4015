// Package resolver computes canonical destination paths in the export tree.
//
// The base path encodes the access tier and the parsed interview identity:
// <data_root>/<tier>/<study>/processed/<subject>/interviews/<type>. Flattened
// tags land directly under the base by base name; structure-preserving tags
// keep every path segment after the last processing-root marker ("decrypted"
// preferred over "processed") so internal substructure stays traceable while
// the pipeline's absolute prefix is discarded.
package resolver
