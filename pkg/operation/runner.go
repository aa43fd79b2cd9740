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

package operation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner executes operations one after another
type Runner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner. An async runner executes each operation
// in the background and returns as soon as ctx is cancelled, except for
// mutating operations, which it waits for.
func NewRunner(logger *zerolog.Logger, async bool) *Runner {
	return &Runner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes ops in order, stopping at the first failure
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	for _, op := range ops {
		start := time.Now()
		r.logger.Debug().Str("operation", op.Name()).Msg("starting operation")

		var err error
		if r.async {
			err = r.runAsync(ctx, op)
		} else {
			err = r.runSync(ctx, op)
		}
		if err != nil {
			return errors.Errorf("running %s: %w", op.Name(), err)
		}

		r.logger.Debug().Str("operation", op.Name()).Dur("took", time.Since(start)).Msg("operation complete")
	}
	return nil
}

// 🔄 runSync runs an operation synchronously
func (r *Runner) runSync(ctx context.Context, op Operation) error {
	return op.Execute(r.logger.WithContext(ctx))
}

// ⚡ runAsync runs an operation asynchronously
func (r *Runner) runAsync(ctx context.Context, op Operation) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := op.Execute(r.logger.WithContext(ctx)); err != nil {
			errCh <- errors.Errorf("executing operation: %w", err)
		}
	}()

	// Wait for completion or context cancellation
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		if mutates(op) {
			// moves in flight still have to be journaled
			r.logger.Warn().Str("operation", op.Name()).Msg("cancelled, waiting for in-flight moves")
			<-done
			select {
			case err := <-errCh:
				return err
			default:
			}
		}
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-errCh:
		return err
	case <-done:
		// an error sent just before done closed must not be lost
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
}
