// Package clientip extracts the client address of an HTTP request.
//
// Proxy headers are consulted in a fixed order (CF-Connecting-IP,
// X-Forwarded-For, X-Real-IP) before falling back to RemoteAddr. Only deploy
// behind proxies that overwrite these headers; clients can forge them
// otherwise.
package clientip
