// Package fetch is the blocking HTTP collaborator used by every metadata
// source: fetch(url, headers) -> (status, body).
//
// Transport failures never surface as Go errors to callers; they become a
// Response with Status 0 and Err set, so adapters can treat "network down" and
// "non-2xx" the same way while tests can still tell them apart.
package fetch
