package judge

import (
	"context"

	"aiblecode/internal/domain/model"
)

// Ad hoc runs get a fixed generous allowance instead of a problem's limits.
const (
	AdhocTimeLimitSec  = 5.0
	AdhocMemoryLimitMB = 256
)

// RunAdhoc executes code against a user-provided stdin with no testcase and
// no persistence. IE, TLE and MLE outcomes are translated into a synthesized
// stderr message; all other outcomes pass stdout/stderr through unchanged.
// Empty code short-circuits without contacting the engine.
func (o *Orchestrator) RunAdhoc(ctx context.Context, language, code, stdin string) (string, string, error) {
	if code == "" {
		return "", "", nil
	}

	outcome, err := o.client.Run(ctx, RunRequest{
		Language:      language,
		Code:          code,
		Stdin:         stdin,
		TimeLimitSec:  AdhocTimeLimitSec,
		MemoryLimitMB: AdhocMemoryLimitMB,
	})
	if err != nil {
		o.logger.Error("ad hoc execution failed", "language", language, "err", err)
		return "", "[Error] Internal Error", nil
	}

	switch Classify(outcome.StatusDescription) {
	case model.VerdictIE:
		return outcome.Stdout, "[Error] Internal Error", nil
	case model.VerdictTLE:
		return outcome.Stdout, "[Error] Time Limit Exceeded (over 5 sec)\n" + outcome.Stderr, nil
	case model.VerdictMLE:
		return outcome.Stdout, "[Error] Memory Limit Exceeded (over 256 MB)\n" + outcome.Stderr, nil
	case model.VerdictCE:
		// The compiler diagnostic is the useful stderr for a compile failure.
		return outcome.Stdout, outcome.CompileOutput, nil
	default:
		return outcome.Stdout, outcome.Stderr, nil
	}
}
