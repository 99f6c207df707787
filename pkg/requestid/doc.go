// Package requestid tags every execution unit with a correlation id.
//
// Middleware reuses a well-formed incoming X-Request-ID header or generates
// a UUID, echoes it back and stores it in the request context. The queue
// worker stores the task id the same way, so request and job logs share one
// key. LoggerExtractor exposes the id to the logger.
package requestid
