package service

import (
	"context"
	"encoding/json"

	"notealog/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishAutoCategorize(ctx context.Context, msg dto.AutoCategorizeMessage) error
}

type publisherService struct {
	publisher message.Publisher
	topicName string
}

func NewPublisherService(publisher message.Publisher, topicName string) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
	}
}

func (ps *publisherService) PublishAutoCategorize(ctx context.Context, payload dto.AutoCategorizeMessage) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, msg)
}
