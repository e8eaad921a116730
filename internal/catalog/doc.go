// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

/*
Package catalog fetches book metadata from external providers.

Two providers are implemented: OpenLibrary (primary, no API key required)
and Google Books. Each provider wraps a shared resilient HTTP client that
combines a client-side rate limiter with a circuit breaker, so a
misbehaving upstream cannot exhaust the process or hammer a failing API.

The Multi provider composes the two: it queries providers in order and
returns the first non-empty result, falling back to the next provider on
failure or empty responses. Callers that can tolerate missing metadata
should use Multi rather than a single provider.

All methods take a context.Context and respect cancellation, including
while waiting on the rate limiter.
*/
package catalog
