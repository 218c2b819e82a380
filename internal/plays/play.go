package plays

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/bradjones1/maestro-ng/internal/errors"
	"github.com/bradjones1/maestro-ng/internal/logging"
	"github.com/bradjones1/maestro-ng/internal/styles"
	"github.com/bradjones1/maestro-ng/internal/termout"
	"github.com/bradjones1/maestro-ng/internal/util"
)

// Column widths for the status block, shared by the header row and the
// per-task prefixes so the columns line up.
const (
	nameColWidth    = 20
	serviceColWidth = 15

	// statusReserve is the width kept free for status text when the block
	// is constrained to a terminal width.
	statusReserve = 20
)

// Play executes a set of interdependent tasks concurrently, rendering one
// status row per task on a shared canvas. Tasks start once everything they
// depend on has completed; after the first failure, every task that has not
// started yet aborts instead of running.
type Play struct {
	name   string
	tasks  []*Task
	deps   map[string][]string
	cfg    playConfig
	sink   termout.Sink
	sem    *semaphore
	logger *logging.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	done   map[string]bool
	failed []error
}

// New builds a Play from tasks after validating names and dependencies.
// Duplicate names, references to unknown tasks and dependency cycles are
// all rejected here, before anything renders.
func New(name string, tasks []*Task, opts ...Option) (*Play, error) {
	cfg := playConfig{tickInterval: time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sink == nil {
		cfg.sink = termout.NewStreamSink(nil)
	}

	byName := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		if t.Name == "" {
			return nil, errors.NewValidationError("tasks", "", "every task needs a name")
		}
		if _, dup := byName[t.Name]; dup {
			return nil, errors.NewValidationError("tasks", t.Name, "duplicate task name")
		}
		byName[t.Name] = t
	}

	deps := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, errors.Wrapf(errors.ErrUnknownDependency,
					"task %q depends on %q", t.Name, dep)
			}
			if dep == t.Name {
				return nil, errors.Wrapf(errors.ErrDependencyCycle,
					"task %q depends on itself", t.Name)
			}
			if cfg.reverse {
				deps[dep] = append(deps[dep], t.Name)
			} else {
				deps[t.Name] = append(deps[t.Name], dep)
			}
		}
	}

	if err := checkAcyclic(tasks, deps); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	p := &Play{
		name:   name,
		tasks:  tasks,
		deps:   deps,
		cfg:    cfg,
		sink:   cfg.sink,
		sem:    newSemaphore(cfg.concurrency),
		logger: logger.WithPlay(name),
		done:   make(map[string]bool, len(tasks)),
	}
	p.cond = sync.NewCond(&p.mu)
	return p, nil
}

// Name returns the play's name.
func (p *Play) Name() string {
	return p.name
}

// checkAcyclic verifies the dependency graph has a topological order using
// Kahn's algorithm: peel off tasks with no unresolved dependencies until
// none remain. Anything left over sits on a cycle.
func checkAcyclic(tasks []*Task, deps map[string][]string) error {
	inDegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		inDegree[t.Name] = len(deps[t.Name])
		for _, dep := range deps[t.Name] {
			dependents[dep] = append(dependents[dep], t.Name)
		}
	}

	var queue []string
	for _, t := range tasks {
		if inDegree[t.Name] == 0 {
			queue = append(queue, t.Name)
		}
	}

	resolved := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		resolved++
		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if resolved != len(tasks) {
		var stuck []string
		for _, t := range tasks {
			if inDegree[t.Name] > 0 {
				stuck = append(stuck, t.Name)
			}
		}
		return errors.Wrapf(errors.ErrDependencyCycle,
			"tasks %s", strings.Join(stuck, ", "))
	}
	return nil
}

// Run renders the status block and executes every task. It blocks until all
// tasks have finished or aborted, restores the cursor below the block, and
// returns the task failures joined together, or nil when everything
// succeeded. Canceling ctx aborts tasks that have not finished.
func (p *Play) Run(ctx context.Context) error {
	canvas, err := termout.NewCanvas(len(p.tasks), p.sink)
	if err != nil {
		return err
	}

	if !p.cfg.noHeader {
		if err := p.writeHeader(); err != nil {
			return err
		}
	}
	if err := canvas.Start(); err != nil {
		return err
	}

	for i, t := range p.tasks {
		f, err := canvas.Formatter(i, p.prefix(i, t))
		if err != nil {
			return err
		}
		t.formatter = f
	}

	// Wake dependency waiters when the context is canceled; they check the
	// context themselves once woken.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.cond.Broadcast()
		case <-watchDone:
		}
	}()

	p.logger.Info("play started",
		"tasks", len(p.tasks), "concurrency", p.cfg.concurrency)

	var wg conc.WaitGroup
	for _, t := range p.tasks {
		wg.Go(func() { p.runTask(ctx, t) })
	}
	wg.Wait()
	close(watchDone)

	if err := canvas.End(); err != nil {
		return err
	}

	p.mu.Lock()
	failures := append([]error(nil), p.failed...)
	p.mu.Unlock()

	if len(failures) == 0 && ctx.Err() != nil {
		p.logger.Warn("play canceled")
		return errors.Wrapf(errors.ErrPlayCanceled, "play %s", p.name)
	}
	if len(failures) > 0 {
		p.logger.Error("play failed", "failures", len(failures))
		return errors.Join(failures...)
	}
	p.logger.Info("play finished")
	return nil
}

// writeHeader prints the column header on the line above the status block.
func (p *Play) writeHeader() error {
	header := fmt.Sprintf("  #  %-*s %-*s %s",
		nameColWidth, "NAME", serviceColWidth, "SERVICE", "STATUS")
	if p.cfg.width > 0 {
		header = util.TruncateANSI(header, p.cfg.width)
	}
	if err := p.sink.Write(styles.Header.Render(header) + "\n"); err != nil {
		return err
	}
	return p.sink.Flush()
}

// prefix builds the immutable left columns of a task's status row.
func (p *Play) prefix(i int, t *Task) string {
	prefix := fmt.Sprintf("%3d. %-*.*s %-*.*s", i+1,
		nameColWidth, nameColWidth, t.Name,
		serviceColWidth, serviceColWidth, t.Service)
	if p.cfg.width > statusReserve {
		prefix = util.TruncateANSI(prefix, p.cfg.width-statusReserve)
	}
	return prefix
}

// runTask drives one task through its lifecycle: wait for dependencies,
// acquire an execution slot, run the action, and publish the result. All
// rendering goes through the task's formatter; the canvas serializes the
// underlying writes.
func (p *Play) runTask(ctx context.Context, t *Task) {
	f := t.formatter
	log := p.logger.WithTask(t.Name)

	_ = f.Pending(styles.StatusWaiting.Render("waiting..."))

	if err := p.awaitDependencies(ctx, t); err != nil {
		_ = f.Commit(styles.StatusAborted.Render("aborted!"))
		log.Warn("task aborted", "reason", err.Error())
		return
	}
	if err := p.sem.Acquire(ctx); err != nil {
		_ = f.Commit(styles.StatusAborted.Render("aborted!"))
		log.Warn("task aborted", "reason", err.Error())
		return
	}
	defer p.sem.Release()

	t.started = time.Now()
	log.Debug("task started")
	stopTick := p.tickElapsed(ctx, t)

	err := p.invoke(ctx, t)
	stopTick()

	if err != nil {
		// Errors surfacing during teardown are aborts, not task failures:
		// a killed command reports "signal: killed" rather than the
		// context error, so the context alone decides.
		if ctx.Err() != nil {
			_ = f.Commit(styles.StatusAborted.Render("aborted!"))
			log.Warn("task aborted", "reason", err.Error())
			return
		}
		_ = f.Commit(styles.StatusFailed.Render("failed!"))
		log.Error("task failed",
			"err", err.Error(), "elapsed", time.Since(t.started).String())
		p.fail(t, err)
		return
	}

	log.Debug("task finished", "elapsed", time.Since(t.started).String())
	p.complete(t)
}

// invoke runs the task's action, converting panics into errors so one
// misbehaving task cannot take down the whole play. A task without an
// action resolves its row with "ok".
func (p *Play) invoke(ctx context.Context, t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(errors.ErrTaskFailed, "panic: %v", r)
		}
	}()

	if t.Action == nil {
		return t.formatter.Commit(styles.StatusDone.Render("ok"))
	}
	return t.Action(ctx, t.formatter)
}

// awaitDependencies blocks until every dependency of t has completed, any
// task has failed, or ctx is canceled. A failure anywhere aborts this task
// before it starts.
func (p *Play) awaitDependencies(ctx context.Context, t *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.satisfiedLocked(t) && len(p.failed) == 0 && ctx.Err() == nil {
		p.cond.Wait()
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrapf(errors.ErrPlayCanceled, "task %s", t.Name)
	}
	if len(p.failed) > 0 {
		return errors.Wrapf(errors.ErrTaskAborted, "task %s", t.Name)
	}
	return nil
}

// satisfiedLocked reports whether every dependency of t has completed.
// Callers must hold p.mu.
func (p *Play) satisfiedLocked(t *Task) bool {
	if p.cfg.ignoreDeps {
		return true
	}
	for _, dep := range p.deps[t.Name] {
		if !p.done[dep] {
			return false
		}
	}
	return true
}

// fail records a task failure and wakes every dependency waiter so they
// can abort.
func (p *Play) fail(t *Task, err error) {
	p.mu.Lock()
	p.failed = append(p.failed, errors.NewPlayError(t.Name, err))
	p.cond.Broadcast()
	p.mu.Unlock()
}

// complete marks a task as done and wakes waiters so its dependents can
// start.
func (p *Play) complete(t *Task) {
	p.mu.Lock()
	p.done[t.Name] = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// tickElapsed refreshes a running task's row with its elapsed time on the
// configured interval. The refresh goes through Pending so it never sticks:
// whatever the task commits next replaces it. The returned stop function
// waits for the ticker goroutine to exit, so a late refresh can never
// overwrite the task's final status.
func (p *Play) tickElapsed(ctx context.Context, t *Task) (stop func()) {
	if p.cfg.tickInterval <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(p.cfg.tickInterval)
	tickDone := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-tickDone:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				elapsed := util.FormatDuration(time.Since(t.started))
				_ = t.formatter.Pending(styles.Muted.Render(elapsed + "..."))
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(tickDone)
		<-stopped
	}
}
