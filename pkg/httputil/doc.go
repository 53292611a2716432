// Package httputil provides transport helpers for the API client.
//
// [Retry] re-runs a request while it fails with an error wrapped by
// [Retryable], doubling the delay between attempts:
//
//	err := httputil.Retry(ctx, httputil.DefaultBackoff, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Errors that are not wrapped end the loop at once, so 4xx responses and
// decode failures are never retried. [ErrNetwork] marks transport failures
// for callers that want to match them with errors.Is.
package httputil
