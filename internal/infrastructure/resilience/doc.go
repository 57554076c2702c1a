/*
Package resilience provides a circuit breaker for outbound calls.

The launch webhook runs every delivery through a Breaker so a dead
endpoint is skipped quickly instead of tying up the delivery worker.

# Usage

	breaker := resilience.New("webhook", resilience.Settings{
		Probes:   1,
		Cooldown: 30 * time.Second,
		ShouldTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Do(ctx, func(ctx context.Context) error {
		return post(ctx, event)
	})

# States

	Closed --[ShouldTrip]-> Open --[Cooldown]-> Half-Open --[Probes successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                             Open

Time is read from an injectable clock so tests can step through the
cooldown without sleeping.
*/
package resilience
