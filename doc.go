// Package fetchx is a configurable HTTP client wrapper: a thin layer over
// net/http that adds a composable middleware pipeline, a uniform response
// envelope and a library of cross-cutting middleware (CSRF, bearer auth,
// authorization redirect, caching, retry with backoff, rate limiting,
// circuit breaking, logging, metrics, tracing).
//
// Every request produces exactly one Response. Ordinary HTTP failures and
// recognized transport failures (network unreachable, abort, timeout) are
// encoded in the envelope rather than returned as errors, so typical caller
// code is a single OK check:
//
//	client := fetchx.NewClient(fetchx.WithBaseURL("https://api.example.com"))
//	resp, err := client.Get(ctx, "/users/123")
//	if err != nil {
//	    // unexpected host-level failure
//	}
//	if !resp.OK {
//	    // HTTP or transport failure, details in resp.Err
//	}
package fetchx
