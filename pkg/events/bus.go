package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const TopicModelUpdated = "MODEL_UPDATED"

// ModelUpdated announces that a turn produced a new artifact, so display
// surfaces (websocket clients, scene state) can refresh. Delivery is
// auxiliary: publishing failures are logged by callers, never fatal.
type ModelUpdated struct {
	ArtifactID string `json:"artifact_id"`
	Script     string `json:"script"`
	Notice     string `json:"notice,omitempty"`
}

// Bus is an in-process pub/sub wrapper over a watermill go-channel.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus() *Bus {
	watermillLogger := watermill.NewStdLogger(false, false)
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermillLogger),
	}
}

func (b *Bus) PublishModelUpdated(evt ModelUpdated) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.pubSub.Publish(TopicModelUpdated, message.NewMessage(watermill.NewUUID(), payload))
}

// SubscribeModelUpdated delivers decoded events until ctx is cancelled.
// Malformed payloads are acked and dropped to avoid redelivery loops.
func (b *Bus) SubscribeModelUpdated(ctx context.Context) (<-chan ModelUpdated, error) {
	messages, err := b.pubSub.Subscribe(ctx, TopicModelUpdated)
	if err != nil {
		return nil, err
	}

	out := make(chan ModelUpdated)
	go func() {
		defer close(out)
		for msg := range messages {
			var evt ModelUpdated
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				msg.Ack()
				continue
			}
			select {
			case out <- evt:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()

	return out, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
