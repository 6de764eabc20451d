package shell

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"

	"smallsh/internal/config"
	"smallsh/internal/logging"
)

// DefaultMaxJobs is the number of background processes tracked at once.
const DefaultMaxJobs = config.DefaultMaxJobs

// Job is a tracked background process. A job whose process was already
// reaped keeps its status until the next sweep reports it.
type Job struct {
	PID    int
	reaped bool
	status Status
}

// Completion is a background process that finished. Command is set instead
// of PID for a background command that failed before any process existed.
type Completion struct {
	PID     int
	Command string
	Status  Status
}

func (c Completion) String() string {
	who := fmt.Sprintf("pid %d", c.PID)
	if c.PID == 0 && c.Command != "" {
		who = "command " + c.Command
	}
	if _, ok := c.Status.Signal(); ok {
		return fmt.Sprintf("background %s is done: %s", who, c.Status)
	}
	return fmt.Sprintf("background %s is done. %s", who, c.Status)
}

// JobRegistry is a fixed-size table of background processes. Slot order is
// registration order into the first free slot; a PID of 0 marks a free slot.
//
// When the table is full a new process is not tracked: it runs to
// completion, is reaped quietly and never produces a completion notice.
type JobRegistry struct {
	slots  []Job
	failed []Completion
	out    io.Writer
	logger *logging.Logger
}

func NewJobRegistry(capacity int, out io.Writer, logger *logging.Logger) *JobRegistry {
	if capacity <= 0 {
		capacity = DefaultMaxJobs
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &JobRegistry{
		slots:  make([]Job, capacity),
		out:    out,
		logger: logger.With("component", "jobs"),
	}
}

// Register tracks pid and polls it once, so a process that already exited
// is reaped now and reported by the next Sweep. It returns false when the
// registry is full.
func (r *JobRegistry) Register(pid int) bool {
	for i := range r.slots {
		if r.slots[i].PID != 0 {
			continue
		}
		r.slots[i] = Job{PID: pid}
		if status, done, err := waitPID(pid, unix.WNOHANG); err == nil && done {
			r.slots[i].reaped = true
			r.slots[i].status = status
		}
		r.logger.Debug("registered background job", "pid", pid, "slot", i)
		return true
	}

	r.logger.Warn("job registry full, background process not tracked", "pid", pid, "capacity", len(r.slots))
	go func() {
		_, _, _ = waitPID(pid, 0)
	}()
	return false
}

// Fail records a background command that could not be started. The next
// Sweep reports it once with exit value 1, as if its child had exited.
func (r *JobRegistry) Fail(name string) {
	r.failed = append(r.failed, Completion{Command: name, Status: Exited(1)})
	r.logger.Debug("background command failed to start", "command", name)
}

// Len returns the number of tracked jobs.
func (r *JobRegistry) Len() int {
	n := 0
	for _, j := range r.slots {
		if j.PID != 0 {
			n++
		}
	}
	return n
}

// PIDs returns the tracked process ids in slot order.
func (r *JobRegistry) PIDs() []int {
	var pids []int
	for _, j := range r.slots {
		if j.PID != 0 {
			pids = append(pids, j.PID)
		}
	}
	return pids
}

// Sweep reaps every finished background process without blocking, prints
// one notice per process and frees its slot. Commands recorded with Fail
// are reported first. Running processes are left alone.
func (r *JobRegistry) Sweep() []Completion {
	var completed []Completion
	for _, c := range r.failed {
		fmt.Fprintln(r.out, c)
		completed = append(completed, c)
	}
	r.failed = nil

	for i := range r.slots {
		j := &r.slots[i]
		if j.PID == 0 {
			continue
		}

		if !j.reaped {
			status, done, err := waitPID(j.PID, unix.WNOHANG)
			if err != nil {
				r.logger.Warn("dropping background job", "pid", j.PID, "error", err)
				*j = Job{}
				continue
			}
			if !done {
				continue
			}
			j.status = status
		}

		c := Completion{PID: j.PID, Status: j.status}
		fmt.Fprintln(r.out, c)
		r.logger.Debug("reaped background job", "pid", c.PID, "status", c.Status.String())
		completed = append(completed, c)
		*j = Job{}
	}
	return completed
}

// KillAll sends SIGKILL to every tracked process that is still running and
// reaps it. Per-process results are printed; failures are also returned.
func (r *JobRegistry) KillAll() error {
	var result *multierror.Error
	for i := range r.slots {
		j := r.slots[i]
		if j.PID == 0 {
			continue
		}
		r.slots[i] = Job{}
		if j.reaped {
			continue
		}

		fmt.Fprintf(r.out, "Attempting to kill %d\n", j.PID)
		if err := unix.Kill(j.PID, unix.SIGKILL); err != nil {
			fmt.Fprintf(r.out, "Process %d was not killed\n", j.PID)
			result = multierror.Append(result, fmt.Errorf("kill %d: %w", j.PID, err))
			continue
		}
		fmt.Fprintf(r.out, "Process %d was killed\n", j.PID)
		if _, _, err := waitPID(j.PID, 0); err != nil {
			r.logger.Debug("reap after kill", "pid", j.PID, "error", err)
		}
	}
	return result.ErrorOrNil()
}
