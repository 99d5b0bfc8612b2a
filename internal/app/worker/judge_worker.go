package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"aiblecode/internal/domain/model"
	"aiblecode/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// Judger runs the full judging pipeline for one submission.
type Judger interface {
	Judge(ctx context.Context, sub *model.Submission) error
}

// JudgeWorker drains the submission queue with a pool of goroutines. Each
// worker blocks on BRPOP, loads the submission and hands it to the judger.
// A submission that fails judging is logged and dropped, not requeued; its
// detail rows show whatever progress the run made.
type JudgeWorker struct {
	rdb            *redis.Client
	submissionRepo repository.SubmissionRepository
	judger         Judger
	queueName      string
	workerCount    int
	logger         *slog.Logger
	wg             sync.WaitGroup
}

func NewJudgeWorker(
	rdb *redis.Client,
	submissionRepo repository.SubmissionRepository,
	judger Judger,
	queueName string,
	workerCount int,
	logger *slog.Logger,
) *JudgeWorker {
	if workerCount < 1 {
		workerCount = 1
	}
	return &JudgeWorker{
		rdb:            rdb,
		submissionRepo: submissionRepo,
		judger:         judger,
		queueName:      queueName,
		workerCount:    workerCount,
		logger:         logger,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled; Wait
// blocks until they have all drained their in-flight submission.
func (w *JudgeWorker) Start(ctx context.Context) {
	w.logger.Info("starting judge workers", "count", w.workerCount, "queue", w.queueName)
	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.run(ctx, id)
		}(i)
	}
}

func (w *JudgeWorker) Wait() {
	w.wg.Wait()
}

func (w *JudgeWorker) run(ctx context.Context, id int) {
	logger := w.logger.With("worker_id", id)
	for {
		select {
		case <-ctx.Done():
			logger.Info("judge worker stopping")
			return
		default:
		}

		result, err := w.rdb.BRPop(ctx, 5*time.Second, w.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // queue empty, poll again
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("judge worker stopping")
				return
			}
			logger.Error("failed to pop from judge queue", "err", err)
			time.Sleep(time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		w.process(ctx, logger, result[1])
	}
}

func (w *JudgeWorker) process(ctx context.Context, logger *slog.Logger, submissionID string) {
	logger.Info("judging submission", "submission_id", submissionID)

	sub, err := w.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		logger.Error("failed to load queued submission", "submission_id", submissionID, "err", err)
		return
	}

	start := time.Now()
	if err := w.judger.Judge(ctx, sub); err != nil {
		logger.Error("judging failed", "submission_id", submissionID, "err", err)
		return
	}
	logger.Info("judging finished", "submission_id", submissionID, "duration", time.Since(start))
}
