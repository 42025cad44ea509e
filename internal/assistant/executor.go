package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"balance-backend/internal/tasks"
)

type FailureKind int

const (
	FailValidation FailureKind = iota // caught locally, no network call made
	FailAuth                          // backend said 401
	FailGeneric                       // 403/429/500/transport, detail goes to the log only
)

type Failure struct {
	Kind    FailureKind
	Message string // field-naming text for validation failures
}

// Outcome carries one command's raw result to the formatter.
type Outcome struct {
	Command    Command
	Tasks      []tasks.Task
	Pagination tasks.Pagination
	Analysis   *tasks.Analysis
	Created    *tasks.Task
	Failure    *Failure
}

// Backend is the task API surface the executor dispatches to.
type Backend interface {
	ListTasks(ctx context.Context, q ListQuery) ([]tasks.Task, tasks.Pagination, error)
	CreateTask(ctx context.Context, req CreateTask) (tasks.Task, error)
	UpdateTask(ctx context.Context, id string, u tasks.Update) error
	DeleteTask(ctx context.Context, id string) error
	Analyze(ctx context.Context, typ tasks.AnalysisType) (tasks.Analysis, error)
}

type Executor struct {
	backend Backend
	log     *zap.Logger
}

func NewExecutor(backend Backend, log *zap.Logger) *Executor {
	return &Executor{backend: backend, log: log}
}

// Execute performs at most one network call for the command. Anything that
// fails local validation returns before any traffic is generated, and no
// call is ever retried.
func (e *Executor) Execute(ctx context.Context, cmd Command) Outcome {
	switch cmd.Kind {
	case KindRetrieve:
		return e.retrieve(ctx, cmd)
	case KindUpdate:
		return e.update(ctx, cmd)
	case KindAnalyze:
		return e.analyze(ctx, cmd)
	case KindCreate:
		return e.create(ctx, cmd)
	case KindDelete:
		return e.delete(ctx, cmd)
	}
	return fail(cmd, FailValidation, "I don't know how to run that command.")
}

func (e *Executor) retrieve(ctx context.Context, cmd Command) Outcome {
	f := tasks.ListFilter{
		Priority:   cmd.Priority,
		Importance: cmd.Importance,
		DueBefore:  cmd.DueBefore,
		SortBy:     cmd.SortBy,
		SortOrder:  cmd.SortOrder,
		Limit:      cmd.Limit,
		Offset:     cmd.Offset,
	}
	f.Normalize()
	if err := f.Validate(); err != nil {
		return fail(cmd, FailValidation, err.Error())
	}

	list, page, err := e.backend.ListTasks(ctx, ListQuery{
		Priority:   f.Priority,
		Importance: f.Importance,
		DueBefore:  f.DueBefore,
		SortBy:     cmd.SortBy,
		SortOrder:  cmd.SortOrder,
		Limit:      cmd.Limit,
		Offset:     cmd.Offset,
	})
	if err != nil {
		return e.remoteFailure(cmd, err)
	}
	return Outcome{Command: cmd, Tasks: list, Pagination: page}
}

func (e *Executor) update(ctx context.Context, cmd Command) Outcome {
	// the parser's task-reference capture is unreliable (single token), so
	// a missing id is an expected case and gets a usable message
	if strings.TrimSpace(cmd.TaskID) == "" {
		return fail(cmd, FailValidation,
			"Please specify which task, for example: update task 12 to high priority.")
	}
	if cmd.Rank == "" {
		return fail(cmd, FailValidation,
			"Please specify a priority level: low, medium, or high.")
	}
	if !tasks.ValidRank(cmd.Rank) {
		return fail(cmd, FailValidation, "priority must be one of low, medium, high")
	}

	rank := cmd.Rank
	err := e.backend.UpdateTask(ctx, cmd.TaskID, tasks.Update{
		Priority:   &rank,
		Importance: &rank,
	})
	if err != nil {
		return e.remoteFailure(cmd, err)
	}
	return Outcome{Command: cmd}
}

func (e *Executor) analyze(ctx context.Context, cmd Command) Outcome {
	typ := cmd.AnalysisType
	if typ == "" {
		typ = tasks.AnalysisPriority
	}
	if !tasks.ValidAnalysisType(string(typ)) {
		return fail(cmd, FailValidation, "analysis type must be one of priority, workload, timeline")
	}

	result, err := e.backend.Analyze(ctx, typ)
	if err != nil {
		return e.remoteFailure(cmd, err)
	}
	return Outcome{Command: cmd, Analysis: &result}
}

func (e *Executor) create(ctx context.Context, cmd Command) Outcome {
	if strings.TrimSpace(cmd.Title) == "" {
		return fail(cmd, FailValidation, "title is required")
	}
	if cmd.Priority != "" && !tasks.ValidRank(cmd.Priority) {
		return fail(cmd, FailValidation, "priority must be one of low, medium, high")
	}
	if cmd.Importance != "" && !tasks.ValidRank(cmd.Importance) {
		return fail(cmd, FailValidation, "importance must be one of low, medium, high")
	}

	created, err := e.backend.CreateTask(ctx, CreateTask{
		Title:       cmd.Title,
		Description: cmd.Description,
		DueDate:     cmd.DueDate,
		Priority:    cmd.Priority,
		Importance:  cmd.Importance,
	})
	if err != nil {
		return e.remoteFailure(cmd, err)
	}
	return Outcome{Command: cmd, Created: &created}
}

func (e *Executor) delete(ctx context.Context, cmd Command) Outcome {
	if strings.TrimSpace(cmd.TaskID) == "" {
		return fail(cmd, FailValidation,
			"Please specify which task to delete, for example: delete task 12.")
	}

	if err := e.backend.DeleteTask(ctx, cmd.TaskID); err != nil {
		return e.remoteFailure(cmd, err)
	}
	return Outcome{Command: cmd}
}

// remoteFailure logs full detail and maps the error onto the two
// user-visible classes: not-signed-in versus everything else.
func (e *Executor) remoteFailure(cmd Command, err error) Outcome {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		e.log.Error("backend call failed",
			zap.String("intent", cmd.Intent),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		if apiErr.Status == http.StatusUnauthorized {
			return fail(cmd, FailAuth, "")
		}
		return fail(cmd, FailGeneric, "")
	}

	e.log.Error("backend unreachable", zap.String("intent", cmd.Intent), zap.Error(err))
	return fail(cmd, FailGeneric, "")
}

func fail(cmd Command, kind FailureKind, msg string) Outcome {
	return Outcome{Command: cmd, Failure: &Failure{Kind: kind, Message: msg}}
}
