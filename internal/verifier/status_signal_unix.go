//go:build !windows

package verifier

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
)

// listenForStatusRequests logs the verification progress on every SIGUSR1.
// The returned function stops listening.
func (v *Verifier) listenForStatusRequests(ctx context.Context, checked *atomic.Uint64) func() {
	userSignal := make(chan os.Signal, 1)
	signal.Notify(userSignal, syscall.SIGUSR1)

	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-userSignal:
				v.logger.
					WithFields(logrus.Fields{
						"checked": checked.Load(),
						"total":   v.db.GetNumberOfAllTestCases(),
					}).Info("Verification status")

			case <-stop:
				return

			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		signal.Stop(userSignal)
		close(stop)
	}
}
