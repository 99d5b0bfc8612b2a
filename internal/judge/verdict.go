package judge

import (
	"strings"

	"aiblecode/internal/domain/model"
)

// classificationRule maps an engine status description onto a verdict. Rules
// are checked in order and the first match wins; exact matches sit above the
// substring matches because engine messages for runtime and compile errors
// carry extra detail text (e.g. "Runtime Error (NZEC)").
type classificationRule struct {
	exact   string
	substr  string
	verdict model.Verdict
}

var classificationRules = []classificationRule{
	{exact: "Accepted", verdict: model.VerdictAC},
	{exact: "Wrong Answer", verdict: model.VerdictWA},
	{exact: "Time Limit Exceeded", verdict: model.VerdictTLE},
	{exact: "Memory Limit Exceeded", verdict: model.VerdictMLE},
	{substr: "Runtime Error", verdict: model.VerdictRE},
	{substr: "Compilation Error", verdict: model.VerdictCE},
}

// Classify maps the engine's free-text status description to a verdict.
// Anything unrecognized is an internal error.
func Classify(description string) model.Verdict {
	for _, rule := range classificationRules {
		if rule.exact != "" && description == rule.exact {
			return rule.verdict
		}
		if rule.substr != "" && strings.Contains(description, rule.substr) {
			return rule.verdict
		}
	}
	return model.VerdictIE
}
