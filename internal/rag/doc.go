// Package rag is a small client for the Cloudflare AutoRAG and R2 object
// REST endpoints used to seed and probe a retrieval-augmented search
// instance.
//
// All paths are relative to the account-scoped v4 API:
//
//	PUT  {base}/accounts/{account}/r2/buckets/{bucket}/objects/{key}
//	GET  {base}/accounts/{account}/autorag/rags
//	POST {base}/accounts/{account}/autorag/rags/{name}/search
//	POST {base}/accounts/{account}/autorag/rags/{name}/ai-search
//
// Requests are never retried. Any non-2xx status, or a 2xx envelope with
// success set to false, is returned as an *APIError.
package rag
