package judge

import (
	"testing"

	"aiblecode/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		description string
		want        model.Verdict
	}{
		{"Accepted", model.VerdictAC},
		{"Wrong Answer", model.VerdictWA},
		{"Time Limit Exceeded", model.VerdictTLE},
		{"Memory Limit Exceeded", model.VerdictMLE},
		{"Runtime Error (NZEC)", model.VerdictRE},
		{"Runtime Error (SIGSEGV)", model.VerdictRE},
		{"Compilation Error", model.VerdictCE},
		{"Compilation Error: main.cpp:3: expected ';'", model.VerdictCE},
		{"Exec Format Error", model.VerdictIE},
		{"Internal Error", model.VerdictIE},
		{"", model.VerdictIE},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.description), "description %q", tc.description)
	}
}

func TestClassifyExactBeforeSubstring(t *testing.T) {
	// A description that merely mentions an exact-match phrase inside extra
	// text must not be promoted to that verdict.
	assert.Equal(t, model.VerdictIE, Classify("Not Accepted"))
	assert.Equal(t, model.VerdictIE, Classify("Wrong Answer on test 3"))
}
