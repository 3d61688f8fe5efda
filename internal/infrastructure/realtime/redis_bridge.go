package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ Publisher = (*RedisBridge)(nil)

// RedisBridge reparte los eventos entre instancias de la API: Publish escribe el envelope
// en un canal de redis y Run entrega al hub local todo lo que llega por ese canal,
// incluidos los eventos publicados por esta misma instancia.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     zerolog.Logger
}

// NewRedisBridge no se conecta; usar Ping antes de SetPublisher.
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, log zerolog.Logger) *RedisBridge {
	return &RedisBridge{
		client:  client,
		channel: channel,
		hub:     hub,
		log:     log.With().Str("component", "realtime.redis").Logger(),
	}
}

func (b *RedisBridge) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Publish serializa el envelope y lo publica en el canal.
func (b *RedisBridge) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Run se suscribe al canal y entrega cada envelope al hub hasta que ctx termine.
// Devuelve error solo si la suscripción inicial falla.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}
	defer func() { _ = pubsub.Close() }()

	b.log.Info().Str("channel", b.channel).Msg("suscrito al canal de eventos")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn().Err(err).Msg("envelope inválido en el canal")
				continue
			}
			b.hub.Deliver(env)
		}
	}
}
