package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/rs/zerolog/log"
)

// PostgresSource listens to the change channel filled by the schema triggers.
type PostgresSource struct {
	dsn     string
	channel string

	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
	PingInterval         time.Duration
}

func NewPostgresSource(dsn, channel string) *PostgresSource {
	return &PostgresSource{
		dsn:                  dsn,
		channel:              channel,
		MinReconnectInterval: 10 * time.Second,
		MaxReconnectInterval: time.Minute,
		PingInterval:         90 * time.Second,
	}
}

func (v *PostgresSource) Listen(ctx context.Context, emit func(evt Event)) error {
	listener := pq.NewListener(v.dsn, v.MinReconnectInterval, v.MaxReconnectInterval, func(kind pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("An error occurred on the realtime listener...")
		}
		switch kind {
		case pq.ListenerEventConnectionAttemptFailed:
			log.Warn().Msg("Unable to connect to the realtime channel, retrying...")
		case pq.ListenerEventReconnected:
			log.Info().Msg("Reconnected to the realtime channel.")
		}
	})
	defer listener.Close()

	if err := listener.Listen(v.channel); err != nil {
		return xerrors.New(fmt.Errorf("unable to listen on %s: %w", v.channel, err))
	}
	log.Info().Str("channel", v.channel).Msg("Listening to realtime changes...")

	ticker := time.NewTicker(v.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("channel", v.channel).Msg("Stopped listening to realtime changes.")
			return nil
		case notification := <-listener.Notify:
			// A nil notification marks a reconnect, changes in between are lost.
			if notification == nil {
				continue
			}
			evt, err := ParseEvent(notification.Extra)
			if err != nil {
				log.Warn().Err(err).Msg("Skipped an undecodable realtime event...")
				continue
			}
			emit(evt)
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					log.Warn().Err(err).Msg("Realtime listener ping failed...")
				}
			}()
		}
	}
}
