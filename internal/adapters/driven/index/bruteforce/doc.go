// Package bruteforce implements driven.VectorIndex with an exact,
// in-memory cosine similarity scan.
//
// Every search compares the query against every entry, O(n·D). The index is
// a cache of the document store: it is rebuilt with Replace at startup and
// never written to disk.
//
// A Projection is applied to every vector before it is stored or queried.
// "identity" keeps vectors unchanged; "truncate:N" keeps the first N
// components, which lets Matryoshka-style embeddings be searched at a
// smaller dimension.
package bruteforce
