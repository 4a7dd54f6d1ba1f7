package sql

import (
	"context"
	"errors"
	"fmt"
)

// ErrVerifyFailed is returned when a script does not execute cleanly.
var ErrVerifyFailed = errors.New("dialect/sql: script verification failed")

// StatementError reports the statement of a script that failed to execute.
type StatementError struct {
	Script    string
	Index     int
	Statement string
	Err       error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	return fmt.Sprintf("dialect/sql: %s statement %d (%s): %v", e.Script, e.Index+1, e.Statement, e.Err)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error { return e.Err }

// Is reports whether the target is ErrVerifyFailed.
func (e *StatementError) Is(target error) bool { return target == ErrVerifyFailed }

// Verify executes the create statements followed by the drop statements, so a
// successful run leaves the database as it found it. When a create statement
// fails, the drop statements are still executed to remove what was created,
// and their errors are ignored.
func Verify(ctx context.Context, e Executor, create, drop []string) error {
	if err := execAll(ctx, e, "create", create); err != nil {
		for _, stmt := range drop {
			if ctx.Err() != nil {
				break
			}
			_ = e.Exec(ctx, stmt)
		}
		return err
	}
	return execAll(ctx, e, "drop", drop)
}

func execAll(ctx context.Context, e Executor, script string, stmts []string) error {
	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Exec(ctx, stmt); err != nil {
			return &StatementError{Script: script, Index: i, Statement: stmt, Err: err}
		}
	}
	return nil
}
