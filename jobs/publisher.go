package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueue список Redis, куда публикуются события бота.
const DefaultQueue = "queue:events"

// Task структура события для очереди
type Task struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	ChatID int64     `json:"chat_id"`
	At     time.Time `json:"at"`
}

// Publisher отправляет события в Redis-очередь для внешних потребителей.
type Publisher struct {
	rdb   *redis.Client
	queue string
	now   func() time.Time
}

func NewPublisher(rdb *redis.Client, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{rdb: rdb, queue: queue, now: time.Now}
}

// Publish отправляет событие eventType для чата chatID.
func (p *Publisher) Publish(ctx context.Context, eventType string, chatID int64) error {
	task := Task{
		ID:     uuid.NewString(),
		Type:   eventType,
		ChatID: chatID,
		At:     p.now().UTC(),
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.queue, payload).Err(); err != nil {
		return fmt.Errorf("push to %s: %w", p.queue, err)
	}
	return nil
}
