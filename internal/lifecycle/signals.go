// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

// InterruptScope absorbs interrupts while it is armed.
//
// Signal handling is process wide. While armed, an interrupt does not
// terminate the current process. QEMU is in the same process group and so
// receives the interrupt as well and can shut down gracefully. The device
// handover of the current process is never interrupted midway.
type InterruptScope struct {
	// Signals to absorb. Default is [os.Interrupt].
	Signals []os.Signal

	Logger *slog.Logger
}

// Absorb implements [Signals].
func (s *InterruptScope) Absorb() (func(), error) {
	signals := s.Signals
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt}
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	received := make(chan os.Signal, 1)
	done := make(chan struct{})

	var wg sync.WaitGroup

	signal.Notify(received, signals...)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for {
			select {
			case sig := <-received:
				logger.Info("Signal absorbed, waiting for qemu to exit",
					slog.String("signal", sig.String()))
			case <-done:
				return
			}
		}
	}()

	release := sync.OnceFunc(func() {
		signal.Stop(received)
		close(done)
		wg.Wait()
	})

	return release, nil
}
