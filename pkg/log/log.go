// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for source path
	statusWidth = 10 // Width for status text
)

// 🎯 RenameOperation represents a single planned or applied move for logging
type RenameOperation struct {
	From      string // Library relative source path
	To        string // Library relative target path
	Status    string // ok/skip/conflict/error/renamed/dry-run
	Reason    string // Why the item was skipped or failed
	IsRenamed bool   // Whether the file was moved
	IsSkipped bool   // Whether the file was left alone on purpose
	IsFailed  bool   // Whether the move failed or conflicts
}

// 📦 BatchOperation represents a batch of moves for logging
type BatchOperation struct {
	Root   string // Library root
	Batch  string // Journal batch id, empty for plans and dry runs
	DryRun bool   // Whether nothing will be touched
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BatchOperation
	operations []RenameOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🏭 NewWithZerolog creates a logger that forwards structured entries to zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRenameOperation formats a rename for display
func (l *Logger) formatRenameOperation(op RenameOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsRenamed:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '→'
		symbolColor = color.FgBlue
	}

	target := op.To
	if op.Reason != "" {
		target = strings.TrimSpace(target + " (" + op.Reason + ")")
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		fmt.Sprintf("%-*s", nameWidth, op.From),
		color.New(color.FgCyan).Sprint(target))
}

// 📝 LogRenameOperation logs a rename
func (l *Logger) LogRenameOperation(ctx context.Context, op RenameOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatRenameOperation(op))

	// Log to zerolog
	l.zlog.Info().
		Str("from", op.From).
		Str("to", op.To).
		Str("status", op.Status).
		Str("reason", op.Reason).
		Bool("is_renamed", op.IsRenamed).
		Bool("is_skipped", op.IsSkipped).
		Bool("is_failed", op.IsFailed).
		Msg("rename operation")
}

// 📝 StartBatchOperation starts a new batch of moves
func (l *Logger) StartBatchOperation(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	mode := "applying"
	if op.DryRun {
		mode = "dry run"
	}

	// Print batch header
	fmt.Fprintf(l.console, "[%s %s]\n", mode, color.New(color.FgCyan).Sprint(op.Root))

	// Log to zerolog
	l.zlog.Info().
		Str("root", op.Root).
		Str("batch", op.Batch).
		Bool("dry_run", op.DryRun).
		Msg("starting batch operation")
}

// 📝 EndBatchOperation ends the current batch and returns the operations logged in it
func (l *Logger) EndBatchOperation(ctx context.Context) []RenameOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations

	// Log summary
	l.zlog.Info().
		Str("root", l.currentOp.Root).
		Int("files", len(ops)).
		Msg("batch operation complete")

	l.currentOp = nil
	l.operations = nil
	return ops
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("booknamer")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
