package main

import (
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/avasilyev/fundbot/internal/config"
	"github.com/avasilyev/fundbot/internal/logger"
	"github.com/avasilyev/fundbot/internal/notification"
)

const maxRetries = 3

func main() {
	// .env is optional; production supplies real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		zap.L().Fatal("failed to connect to queue", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open queue channel", zap.Error(err))
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		notification.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		zap.L().Fatal("failed to register consumer", zap.Error(err))
	}

	worker := notification.NewWorker(notification.LogSender{})

	zap.L().Info("worker running, waiting for notices")
	for d := range msgs {
		if err := worker.Process(d.Body); err != nil {
			retries := retryCount(d)
			if retries < maxRetries {
				// Republish with an incremented retry header so the
				// count survives the round trip, then drop the original.
				republish(ch, q.Name, d.Body, retries+1)
				d.Ack(false)
				continue
			}
			zap.L().Error("dropping notice after retries",
				zap.Int32("retries", retries),
				zap.Error(err))
		}
		d.Ack(false)
	}
}

func retryCount(d amqp.Delivery) int32 {
	if v, ok := d.Headers["x-retry-count"]; ok {
		if n, ok := v.(int32); ok {
			return n
		}
	}
	return 0
}

func republish(ch *amqp.Channel, queue string, body []byte, retries int32) {
	err := ch.Publish(
		"",
		queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Headers:     amqp.Table{"x-retry-count": retries},
			Body:        body,
		},
	)
	if err != nil {
		zap.L().Error("failed to requeue notice", zap.Error(err))
	}
}
