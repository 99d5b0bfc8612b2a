package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueue = "judge_submissions_queue"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSubmissionStore struct {
	mu   sync.Mutex
	subs map[string]*model.Submission
}

func (s *fakeSubmissionStore) CreateSubmission(_ context.Context, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	return nil
}

func (s *fakeSubmissionStore) FindSubmissionByID(_ context.Context, id string) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return sub, nil
}

func (s *fakeSubmissionStore) ListSubmissionsForUserProblem(context.Context, string, string) ([]model.Submission, error) {
	return nil, nil
}

func (s *fakeSubmissionStore) AppendDetail(context.Context, *model.SubmissionDetail) error {
	return nil
}

func (s *fakeSubmissionStore) ListDetails(context.Context, string) ([]model.SubmissionDetail, error) {
	return nil, nil
}

type recordingJudger struct {
	mu     sync.Mutex
	judged []string
}

func (j *recordingJudger) Judge(_ context.Context, sub *model.Submission) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.judged = append(j.judged, sub.ID)
	return nil
}

func (j *recordingJudger) judgedIDs() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.judged))
	copy(out, j.judged)
	return out
}

func TestWorkerDrainsQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := &fakeSubmissionStore{subs: map[string]*model.Submission{
		"sub-1": {ID: "sub-1"},
		"sub-2": {ID: "sub-2"},
	}}
	judger := &recordingJudger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewJudgeWorker(rdb, store, judger, testQueue, 2, discardLogger())
	w.Start(ctx)

	require.NoError(t, rdb.LPush(ctx, testQueue, "sub-1").Err())
	require.NoError(t, rdb.LPush(ctx, testQueue, "sub-2").Err())

	require.Eventually(t, func() bool {
		return len(judger.judgedIDs()) == 2
	}, 5*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"sub-1", "sub-2"}, judger.judgedIDs())

	cancel()
	w.Wait()
}

func TestWorkerSkipsUnknownSubmission(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := &fakeSubmissionStore{subs: map[string]*model.Submission{
		"known": {ID: "known"},
	}}
	judger := &recordingJudger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewJudgeWorker(rdb, store, judger, testQueue, 1, discardLogger())
	w.Start(ctx)

	// The unknown id is logged and dropped; the next item still gets judged.
	require.NoError(t, rdb.LPush(ctx, testQueue, "ghost").Err())
	require.NoError(t, rdb.LPush(ctx, testQueue, "known").Err())

	require.Eventually(t, func() bool {
		return len(judger.judgedIDs()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"known"}, judger.judgedIDs())

	cancel()
	w.Wait()
}
