package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/dustin/go-humanize"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/openshift-assisted/ccx-deadletter/internal/log"
)

// default ratio from the memlimit pkg
const memLimitRatio = 0.9

// ErrStopSignal is the cancellation cause of the context returned by SetupSignalHandler.
var ErrStopSignal = errors.New("stop signal received")

// CloseFunc releases a resource created by the factory.
type CloseFunc func(ctx context.Context) error

// SetupSignalHandler returns a context cancelled on the first SIGINT or SIGTERM.
// Consumers stop and leave their claims; a second signal exits right away.
func SetupSignalHandler(ctx context.Context) context.Context {
	ret, cancel := context.WithCancelCause(ctx)

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger := log.Logger()

		var sig os.Signal

		select {
		case sig = <-c:
		case <-ctx.Done():
			signal.Stop(c)
			cancel(context.Cause(ctx))

			return
		}

		logger.V(1).Info("Signal received, stopping consumers", "signal", sig.String())
		cancel(fmt.Errorf("%w: %s", ErrStopSignal, sig))

		<-c
		logger.Info("Stop signal received twice, exiting")
		os.Exit(1)
	}()

	return ret
}

// SetupRuntime aligns GOMAXPROCS and GOMEMLIMIT with the container limits.
func SetupRuntime() error {
	err := setMaxProcs()
	if err != nil {
		return err
	}

	return setMemLimit()
}

func setMaxProcs() error {
	logger := log.Logger()

	// maxprocs logs printf style templates, logr expects a message followed by key/value pairs
	_, err := maxprocs.Set(maxprocs.Logger(func(msg string, args ...interface{}) {
		logger.V(1).Info(fmt.Sprintf(msg, args...))
	}))
	if err != nil {
		return fmt.Errorf("failed to set max procs: %w", err)
	}

	return nil
}

func setMemLimit() error {
	limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(memLimitRatio),
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
	)
	if err != nil {
		return fmt.Errorf("failed to set go mem limit: %w", err)
	}

	log.Logger().V(1).Info("Go memlimit configured", "ratio", memLimitRatio, "limit", humanize.IBytes(uint64(limit)))

	return nil
}
