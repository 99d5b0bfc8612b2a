package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"aiblecode/internal/common"
)

// LanguageIDs is the closed set of supported submission languages mapped to
// the execution engine's language ids.
var LanguageIDs = map[string]int{
	"Python": 71,
	"Java":   62,
	"C++":    105,
}

func SupportedLanguage(language string) bool {
	_, ok := LanguageIDs[language]
	return ok
}

// RunRequest describes one execution of a source program against one input.
// MemoryLimitMB is converted to kilobytes (x1024) at the wire boundary, which
// is the unit the engine expects.
type RunRequest struct {
	Language       string
	Code           string
	Stdin          string
	ExpectedOutput string
	TimeLimitSec   float64
	MemoryLimitMB  int
}

// RawOutcome is the engine's terminal result for a single run. The status
// description is free text and must go through Classify before use.
type RawOutcome struct {
	StatusDescription string
	Stdout            string
	Stderr            string
	CompileOutput     string
	TimeSec           float64
	MemoryKB          int
}

// ExecutionClient submits one job to the external execution engine and blocks
// until a terminal result is available. Implementations perform no retries; a
// transport or engine failure surfaces as an error.
type ExecutionClient interface {
	Run(ctx context.Context, req RunRequest) (*RawOutcome, error)
}

// Client talks to a Judge0-compatible execution engine over HTTP, using
// synchronous (wait=true) submissions.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type engineSubmission struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin,omitempty"`
	ExpectedOutput string  `json:"expected_output,omitempty"`
	CPUTimeLimit   float64 `json:"cpu_time_limit"`
	MemoryLimit    int     `json:"memory_limit"` // kilobytes
	MaxFileSize    int     `json:"max_file_size,omitempty"`
}

type engineResult struct {
	Stdout        *string  `json:"stdout"`
	Stderr        *string  `json:"stderr"`
	CompileOutput *string  `json:"compile_output"`
	Time          *string  `json:"time"`   // seconds, decimal string
	Memory        *float64 `json:"memory"` // kilobytes
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func (c *Client) Run(ctx context.Context, req RunRequest) (*RawOutcome, error) {
	languageID, ok := LanguageIDs[req.Language]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q: %w", req.Language, common.ErrValidation)
	}

	body, err := json.Marshal(engineSubmission{
		SourceCode:     req.Code,
		LanguageID:     languageID,
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
		CPUTimeLimit:   req.TimeLimitSec,
		MemoryLimit:    req.MemoryLimitMB * 1024,
		MaxFileSize:    65536,
	})
	if err != nil {
		return nil, fmt.Errorf("judge.Client.Run marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions?wait=true", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("judge.Client.Run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execution engine unreachable: %w", common.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("execution engine returned %d: %s: %w", resp.StatusCode, payload, common.ErrServiceUnavailable)
	}

	var result engineResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("judge.Client.Run decode: %w", err)
	}

	outcome := &RawOutcome{StatusDescription: result.Status.Description}
	if result.Stdout != nil {
		outcome.Stdout = *result.Stdout
	}
	if result.Stderr != nil {
		outcome.Stderr = *result.Stderr
	}
	if result.CompileOutput != nil {
		outcome.CompileOutput = *result.CompileOutput
	}
	if result.Time != nil {
		if t, err := strconv.ParseFloat(*result.Time, 64); err == nil {
			outcome.TimeSec = t
		}
	}
	if result.Memory != nil {
		outcome.MemoryKB = int(*result.Memory)
	}
	return outcome, nil
}
