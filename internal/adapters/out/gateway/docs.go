// Package gateway delivers job notifications to candidates through the external
// messaging gateway. Delivery is retried with a linear backoff and throttled by
// a token bucket; a returned *Error means the candidate could not be reached.
package gateway
