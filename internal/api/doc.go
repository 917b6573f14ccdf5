// Package api holds the JSON wire types spoken by cmd/hdeqd and a small
// client for them.
//
// Endpoints:
//
//	POST   /left    {"value": ...}   push at the left end, 204
//	POST   /right   {"value": ...}   push at the right end, 204
//	DELETE /left                     pop the left end, 200 {"value": ...} or 404
//	DELETE /right                    pop the right end, 200 {"value": ...} or 404
//	GET    /stats                    deque statistics
//	GET    /health                   liveness, 200
//	GET    /metrics                  Prometheus exposition
//
// A 404 from a pop means the bucket that pop examined was empty; the client
// turns it into hdeq.ErrEmpty.
package api
