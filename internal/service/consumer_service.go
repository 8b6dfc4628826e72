package service

import (
	"context"
	"encoding/json"

	"notealog/internal/dto"
	"notealog/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	categorizeService ICategorizeService
	log               logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	categorizeService ICategorizeService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		categorizeService: categorizeService,
		log:               log,
	}
}

// Consume processes auto-categorize jobs until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AutoCategorizeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("CONSUMER", "invalid job payload", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Redelivery cannot fix a bad payload.
		msg.Ack()
		return
	}

	cs.log.Info("CONSUMER", "auto categorize started", map[string]interface{}{
		"job_id":  payload.JobId,
		"trigger": payload.Trigger,
	})

	if _, err := cs.categorizeService.RunAutoCategorize(ctx, payload); err != nil {
		// Acked anyway: gochannel redelivers a nack immediately, and the
		// next trigger retries every unassigned note.
		cs.log.Error("CONSUMER", "auto categorize failed", map[string]interface{}{
			"job_id": payload.JobId,
			"error":  err.Error(),
		})
	}
	msg.Ack()
}
