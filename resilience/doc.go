// Package resilience provides the retry and polling primitives used during
// startup provisioning.
//
//   - Policy / Execute: run an operation up to MaxAttempts times with
//     exponential backoff between attempts (InitialInterval, Multiplier,
//     capped at MaxInterval). Exhaustion is an errors.ErrCodeRetriesExhausted.
//   - PollState: the loop state of an observation-driven wait. Each failed
//     observation counts against MaxAttempts; between observations it sleeps
//     an interval seeded from SleepTime that grows by Multiplier.
//
// Every wait honours the caller's context; an aborted wait is reported as
// errors.ErrCodeCancelled, never as exhaustion.
//
//	policy := resilience.NewPolicy(cfg, log)
//	res, err := resilience.Execute(ctx, policy, "create topics", func(ctx context.Context) (*Result, error) {
//	    return admin.CreateTopics(ctx, specs)
//	})
package resilience
