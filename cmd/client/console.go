package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"tasktracker/internal/client"
	"tasktracker/internal/core/domain"
)

const help = `commands:
  list                 show tasks with the current filter
  add <name> [status]  create a task (status: pending|completed)
  done <id>            mark a task completed
  rm <id>              delete a task
  filter <f>           all|pending|completed
  refresh              re-fetch the list
  quit`

type console struct {
	in     *bufio.Scanner
	out    io.Writer
	mu     sync.Mutex
	filter domain.TaskFilter
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{
		in:     bufio.NewScanner(in),
		out:    out,
		filter: domain.TaskFilterAll,
	}
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) notice(n client.Notice) {
	c.printf("[%s] %s\n", n.Kind, n.Text)
}

// render prints a refreshed cache through the active filter.
func (c *console) render(tasks []domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeList(domain.FilterTasks(tasks, c.filter), c.filter)
}

// run reads commands until quit, end of input or ctx is done. The scanner
// runs in its own goroutine so a signal does not wait for the next line.
func (c *console) run(ctx context.Context, tc *client.Client) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(lines)
		for c.in.Scan() {
			select {
			case lines <- c.in.Text():
			case <-stop:
				return
			}
		}
		scanErr <- c.in.Err()
	}()

	c.printf("%s\n", help)
	for {
		c.printf("(%s) > ", tc.State())
		select {
		case <-ctx.Done():
			c.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if quit := c.handle(ctx, tc, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func (c *console) handle(ctx context.Context, tc *client.Client, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
	case "list", "ls":
		c.list(tc)
	case "add":
		name, status := splitStatus(rest)
		if _, err := tc.Create(ctx, name, status); err == nil {
			_ = tc.Refresh(ctx)
		}
	case "done":
		if id, ok := c.parseID(rest); ok {
			_ = tc.MarkCompleted(ctx, id)
		}
	case "rm":
		if id, ok := c.parseID(rest); ok {
			_ = tc.Delete(ctx, id)
		}
	case "filter":
		filter, ok := domain.ParseTaskFilter(rest)
		if !ok {
			c.printf("unknown filter %q\n", rest)
			return false
		}
		c.mu.Lock()
		c.filter = filter
		c.mu.Unlock()
		c.list(tc)
	case "refresh":
		if err := tc.Refresh(ctx); err != nil {
			c.list(tc)
		}
	case "help":
		c.printf("%s\n", help)
	case "quit", "exit":
		return true
	default:
		c.printf("unknown command %q, type help\n", cmd)
	}
	return false
}

func (c *console) list(tc *client.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeList(tc.Filtered(c.filter), c.filter)
}

// writeList expects mu to be held.
func (c *console) writeList(tasks []domain.Task, filter domain.TaskFilter) {
	if len(tasks) == 0 {
		fmt.Fprintf(c.out, "no tasks (%s)\n", filter)
		return
	}
	for _, task := range tasks {
		fmt.Fprintf(c.out, "%4d  %-9s  %s\n", task.ID, task.Status, task.Name)
	}
}

func (c *console) parseID(value string) (uint64, bool) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		c.printf("invalid id %q\n", value)
		return 0, false
	}
	return id, true
}

// splitStatus treats a trailing pending/completed word as the status.
func splitStatus(args string) (string, domain.TaskStatus) {
	idx := strings.LastIndex(args, " ")
	if idx < 0 {
		return args, ""
	}
	if status := domain.TaskStatus(strings.ToLower(args[idx+1:])); status.Valid() {
		return strings.TrimSpace(args[:idx]), status
	}
	return args, ""
}
