// Package resilience provides reliability patterns for outbound calls.
// It includes a circuit breaker wrapper and retry logic with exponential
// backoff, used by the webhook notifier when delivering announcement events.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.WebhookConfig())
//	_, err := cb.Execute(func() (interface{}, error) {
//	    return nil, deliver()
//	})
//
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error {
//	    return performOperation()
//	})
package resilience
