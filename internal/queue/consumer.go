package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartConsumer connects to RabbitMQ, declares the durable
// booking.events queue and consumes it, appending one line per event
// to logs/booking.log. It runs a reconnect loop with exponential
// backoff and never returns under normal operation; processing errors
// are logged and the offending message is rejected without requeue so
// a poison message cannot wedge the consumer.
func StartConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(eventsQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(eventsQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("booking-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	var line string
	switch env.Type {
	case TypeBookingCreated:
		var ev BookingCreatedEvent
		if err := json.Unmarshal(env.Body, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", env.Type, err)
		}
		rooms := make([]string, 0, len(ev.Rooms))
		for _, rm := range ev.Rooms {
			rooms = append(rooms, fmt.Sprintf("%s x%d", rm.RoomNumber, rm.Nights))
		}
		line = fmt.Sprintf("[%s] Booking created | booking_id=%d | guest_id=%d | total=%d cents | rooms=[%s]\n",
			ev.CreatedAt, ev.BookingID, ev.GuestID, ev.TotalCents, strings.Join(rooms, ","))
	case TypeBookingCancelled:
		var ev BookingCancelledEvent
		if err := json.Unmarshal(env.Body, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", env.Type, err)
		}
		line = fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | guest_id=%d | items_released=%d | nights_released=%d\n",
			ev.CancelledAt, ev.BookingID, ev.GuestID, ev.ItemsReleased, ev.NightsReleased)
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
