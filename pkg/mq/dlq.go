package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// DeclareDLQQueue declares the dead letter queue for a routing key and binds it.
func DeclareDLQQueue(ch *amqp091.Channel, routingKey string) (amqp091.Queue, error) {
	if err := declareTopic(ch, DLQExchangeName); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		routingKey+".dlq",
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, DLQExchangeName, false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind DLQ queue: %w", err)
	}

	return q, nil
}
