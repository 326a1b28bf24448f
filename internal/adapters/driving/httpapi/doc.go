// Package httpapi exposes the ingestion and retrieval pipelines as a JSON
// HTTP API.
//
//	POST /documents         {"content": "..."}        -> {"message", "docId"}
//	POST /search            {"query": "...", "k": 3}  -> {"query", "answer", "matches"}
//	GET  /documents/count                             -> {"count"}
//	GET  /documents/{id}                              -> {"id", "content"}
//	POST /admin/resync                                -> {"indexed"}
//
// Validation failures are answered with 400, unknown documents with 404
// and everything else with 500.
package httpapi
