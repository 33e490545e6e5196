// Package cluster groups video fingerprints into performer clusters using
// density-based clustering under cosine distance.
//
// The implementation is deliberately deterministic: visitation order is the
// sorted order of video identifiers, so repeated runs over identical input
// produce identical labels. Noise (-1) marks fingerprints that no dense
// neighborhood claims.
package cluster
