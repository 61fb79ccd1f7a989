package balance

import "context"

// RefreshTask is a handle on a background recomputation.
type RefreshTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	result Aggregate
	err    error
}

// Done is closed when the task finishes, successfully or not.
func (t *RefreshTask) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts the recomputation. A cancelled task does not change the aggregate.
func (t *RefreshTask) Cancel() {
	t.cancel()
}

// Wait blocks until the task finishes or ctx is done.
func (t *RefreshTask) Wait(ctx context.Context) (Aggregate, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return Aggregate{}, ctx.Err()
	}
}

// RefreshAsync starts an unconditional recomputation in the background.
//
// Calls coalesce: while a task is running every caller receives that same task,
// so cancelling it cancels it for everyone. A new task starts only after the
// previous one has finished.
func (s *Service) RefreshAsync(ctx context.Context) *RefreshTask {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.inflight != nil {
		return s.inflight
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := &RefreshTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.inflight = task

	s.work.Add(1)
	go func() {
		defer s.work.Done()
		defer cancel()

		task.result, task.err = s.compute(taskCtx)
		if task.err != nil {
			s.logger.Warn().Err(task.err).Msg("background balance refresh failed")
		}

		s.refreshMu.Lock()
		if s.inflight == task {
			s.inflight = nil
		}
		s.refreshMu.Unlock()

		close(task.done)
	}()

	return task
}
