package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"useragenter/realua/realua/agents"
	"useragenter/realua/realua/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var outputFile string
var generateCount int
var taskSpecs []string
var workers int
var forceOverwrite bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write many random user agents to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := generateTasks()
		if err != nil {
			return err
		}
		if err := checkTasks(store, tasks); err != nil {
			return err
		}
		if _, err := os.Stat(outputFile); err == nil && !forceOverwrite {
			return fmt.Errorf("file %s already exists. Use --force to overwrite", outputFile)
		}
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("error creating file %s: %w", outputFile, err)
		}
		defer file.Close()

		tq := NewTaskQueue(store, workerCount(), file, cmd.ErrOrStderr())
		for _, task := range tasks {
			tq.AddTask(task)
		}
		result := tq.Wait()

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s user agents (%s) to %s\n",
			humanize.Comma(int64(result.Lines)), humanize.Bytes(uint64(result.Bytes)), outputFile)
		if len(result.Errors) > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "\nErrors:")
			for _, err := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", err)
			}
			return fmt.Errorf("%d of %d tasks failed", len(result.Errors), len(tasks))
		}
		return nil
	},
}

func workerCount() int {
	if workers > 0 {
		return workers
	}
	return cfg.Workers
}

func generateTasks() ([]GenerateTask, error) {
	if len(taskSpecs) > 0 {
		var tasks []GenerateTask
		for _, spec := range taskSpecs {
			task, err := parseTask(spec)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
		return tasks, nil
	}
	if generateCount < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}
	mode, err := agents.ParseMode(selectedMode)
	if err != nil {
		return nil, err
	}
	task := GenerateTask{Mode: mode, Browser: selectedBrowser, Count: generateCount}
	return splitTask(task, workerCount()), nil
}

// checkTasks fails on the first task with no candidates, before any output
// file is touched.
func checkTasks(s *agents.Store, tasks []GenerateTask) error {
	for _, task := range tasks {
		if s.Count(task.Mode, task.Browser) == 0 {
			return fmt.Errorf("task %s: %w", task, &agents.NoMatchError{Mode: task.Mode, Browser: task.Browser})
		}
	}
	return nil
}

type GenerateTask struct {
	Mode    agents.Mode
	Browser string
	Count   int
}

func (t GenerateTask) String() string {
	return fmt.Sprintf("%s:%s:%d", t.Mode, t.Browser, t.Count)
}

// parseTask reads "mode:browser:count". Browser may be empty.
func parseTask(spec string) (GenerateTask, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return GenerateTask{}, fmt.Errorf("invalid task %q, expected mode:browser:count", spec)
	}
	mode, err := agents.ParseMode(parts[0])
	if err != nil {
		return GenerateTask{}, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || n < 1 {
		return GenerateTask{}, fmt.Errorf("invalid count in task %q", spec)
	}
	return GenerateTask{Mode: mode, Browser: strings.TrimSpace(parts[1]), Count: n}, nil
}

func splitTask(task GenerateTask, parts int) []GenerateTask {
	parts = max(1, min(parts, task.Count))
	tasks := make([]GenerateTask, 0, parts)
	for i := range parts {
		n := task.Count / parts
		if i < task.Count%parts {
			n++
		}
		tasks = append(tasks, GenerateTask{Mode: task.Mode, Browser: task.Browser, Count: n})
	}
	return tasks
}

type queuedTask struct {
	GenerateTask
	Bar *mpb.Bar
}

type GenerateResult struct {
	Lines  int
	Bytes  int64
	Errors []error
}

type TaskQueue struct {
	queue    chan queuedTask
	lines    chan string
	done     chan struct{}
	wg       sync.WaitGroup
	store    *agents.Store
	progress *mpb.Progress

	mu     sync.Mutex
	errs   []error
	result GenerateResult
}

// NewTaskQueue starts maxWorkers workers drawing from store and a single
// writer that puts one user agent per line on out.
func NewTaskQueue(store *agents.Store, maxWorkers int, out io.Writer, progressOut io.Writer) *TaskQueue {
	tq := &TaskQueue{
		queue: make(chan queuedTask, 100),
		lines: make(chan string, 1024),
		done:  make(chan struct{}),
		store: store,
	}
	tq.progress = mpb.New(mpb.WithOutput(progressOut), mpb.WithAutoRefresh(), mpb.WithWaitGroup(&tq.wg))

	go tq.write(out)
	for range max(1, maxWorkers) {
		go tq.worker()
	}

	return tq
}

func (tq *TaskQueue) AddTask(task GenerateTask) {
	bar := tq.progress.AddBar(int64(task.Count),
		mpb.PrependDecorators(getDecoratorsForTask(task)...),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
		),
	)
	tq.wg.Add(1)
	tq.queue <- queuedTask{GenerateTask: task, Bar: bar}
}

// Wait blocks until every task is processed and the output is flushed.
// The queue cannot be reused afterwards.
func (tq *TaskQueue) Wait() GenerateResult {
	tq.wg.Wait()
	close(tq.queue)
	close(tq.lines)
	<-tq.done
	tq.progress.Wait()

	tq.mu.Lock()
	defer tq.mu.Unlock()
	tq.result.Errors = append(tq.result.Errors, tq.errs...)
	return tq.result
}

func (tq *TaskQueue) worker() {
	for task := range tq.queue {
		tq.processTask(task)
		tq.wg.Done()
	}
}

func getDecoratorsForTask(task GenerateTask) []decor.Decorator {
	wc := decor.WC{C: decor.DSyncSpaceR}
	browser := task.Browser
	if browser == "" {
		browser = "any"
	}
	return []decor.Decorator{
		decor.Name(task.Mode.String(), wc),
		decor.Name(browser, wc),
		decor.CountersNoUnit("%d/%d", wc),
	}
}

func (tq *TaskQueue) processTask(task queuedTask) {
	logger.Logd(fmt.Sprintf("processing task %s", task.GenerateTask))
	for range task.Count {
		ua, err := tq.store.Select(task.Mode, task.Browser)
		if err != nil {
			tq.addError(fmt.Errorf("task %s: %w", task.GenerateTask, err))
			task.Bar.Abort(false)
			return
		}
		tq.lines <- ua
		task.Bar.Increment()
	}
}

func (tq *TaskQueue) addError(err error) {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	var noMatch *agents.NoMatchError
	if errors.As(err, &noMatch) {
		logger.Logw(err.Error())
	} else {
		logger.Loge(err.Error())
	}
	tq.errs = append(tq.errs, err)
}

func (tq *TaskQueue) write(out io.Writer) {
	defer close(tq.done)
	w := bufio.NewWriter(out)
	var writeErr error
	for line := range tq.lines {
		if writeErr != nil {
			continue
		}
		n, err := w.WriteString(line + "\n")
		tq.result.Bytes += int64(n)
		if err != nil {
			writeErr = err
			continue
		}
		tq.result.Lines++
	}
	if writeErr == nil {
		writeErr = w.Flush()
	}
	if writeErr != nil {
		tq.addError(fmt.Errorf("error saving output: %w", writeErr))
	}
}
