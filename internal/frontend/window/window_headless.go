//go:build headless

package window

import (
	"context"

	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Run returns ErrUnavailable as the build does not contain window support.
func Run(_ context.Context, _ *log.Logger, _ *runner.Runner, _ Config) error {
	return ErrUnavailable
}
