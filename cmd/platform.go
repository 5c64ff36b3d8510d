package main

import (
	"context"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/infra/dispatch"
)

// platform bundles the build-target specific trigger backend with the
// dispatcher wired to it.
type platform struct {
	triggers   domain.TriggerStore
	dispatcher *dispatch.Dispatcher
	cleanup    func() error

	// claimFired removes a trigger from the pending index when the fire
	// arrives from outside the process. Nil when firing is in-process.
	claimFired func(ctx context.Context, id string) error
}
