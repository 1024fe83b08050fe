package service

import (
	"context"

	"text-to-cad-be/internal/pkg/logger"
	"text-to-cad-be/internal/websocket"
	"text-to-cad-be/pkg/events"
)

// INotifierService consumes model-update events and pushes them to
// connected viewer tabs.
type INotifierService interface {
	Consume(ctx context.Context) error
}

type notifierService struct {
	bus    *events.Bus
	hub    *websocket.Hub
	logger logger.ILogger
}

func NewNotifierService(bus *events.Bus, hub *websocket.Hub, sysLogger logger.ILogger) INotifierService {
	return &notifierService{
		bus:    bus,
		hub:    hub,
		logger: sysLogger,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	updates, err := ns.bus.SubscribeModelUpdated(ctx)
	if err != nil {
		return err
	}

	go func() {
		for evt := range updates {
			ns.logger.Info("NotifierService", "Broadcasting model update", map[string]interface{}{
				"file_id": evt.ArtifactID,
			})
			ns.hub.Broadcast("model_updated", evt)
		}
	}()

	return nil
}
