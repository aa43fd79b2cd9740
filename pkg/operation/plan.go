package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/library"
	"github.com/booklore-app/booknamer/pkg/status"
)

// 🗺️ PlanOperation prints where every book would move
type PlanOperation struct {
	BaseOperation
	items []library.PlanItem
}

// 🏭 NewPlanOperation creates a new plan operation
func NewPlanOperation(opts Options) (*PlanOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &PlanOperation{BaseOperation: base}, nil
}

// Name implements Operation
func (op *PlanOperation) Name() string { return "plan" }

// 🏃 Execute runs the plan operation
func (op *PlanOperation) Execute(ctx context.Context) error {
	items, err := op.plan(ctx)
	if err != nil {
		return err
	}
	op.items = items

	zerolog.Ctx(ctx).Debug().Int("items", len(items)).Msg("rendering plan")

	if err := status.RenderPlan(op.Out, items); err != nil {
		return errors.Errorf("rendering plan: %w", err)
	}
	return nil
}

// 📋 Items returns the plan computed by the last Execute
func (op *PlanOperation) Items() []library.PlanItem {
	return op.items
}
