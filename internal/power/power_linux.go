//go:build linux

package power

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Watch subscribes to logind sleep signals on the system bus and calls
// onWake after every resume until ctx is done.
func Watch(ctx context.Context, onWake func(), logger zerolog.Logger) error {
	log := logger.With().Str("component", "power").Logger()

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(logindPath),
		dbus.WithMatchInterface(logindInterface),
		dbus.WithMatchMember(prepareForSleep),
	); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe to %s: %w", prepareForSleep, err)
	}

	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	log.Debug().Msg("watching logind for resume")

	go func() {
		defer conn.Close()
		defer conn.RemoveSignal(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					log.Warn().Msg("system bus closed, wake detection stopped")
					return
				}
				if isWake(sig) {
					log.Info().Msg("system resumed")
					onWake()
				}
			}
		}
	}()
	return nil
}
