// Package eventbus publishes the core engine's Event stream to Kafka
// for downstream consumers (risk, settlement, analytics) and runs
// batch consumer groups over that stream. It is adapted from the
// teacher's generic kafka_wrapper, specialized to orderbook.Event.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// Message is one delivered Kafka record, unwrapped for handler code.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Time      time.Time
	Headers   map[string]string
	Raw       kafka.Message
}

// ProducerConfig configures a Publisher's underlying Kafka writer.
type ProducerConfig struct {
	Brokers      []string
	Balancer     kafka.Balancer
	BatchSize    int
	BatchBytes   int64
	BatchTimeout time.Duration
	RequiredAcks kafka.RequiredAcks
}

// Publisher writes the core's Event stream to a topic, one record per
// Event (its fills embedded), keyed by symbol so all events for one book
// land on the same partition and preserve their emission order.
type Publisher struct {
	w *kafka.Writer
}

func NewPublisher(cfg ProducerConfig) *Publisher {
	if cfg.Balancer == nil {
		cfg.Balancer = &kafka.Hash{}
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               cfg.Balancer,
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Publisher{w: wr}
}

// Record is the wire shape of one published event.
type Record struct {
	Symbol       string           `json:"symbol"`
	Kind         orderbook.EventKind `json:"kind"`
	OrderID      string           `json:"order_id"`
	Side         orderbook.Side   `json:"side"`
	OrderType    orderbook.OrderKind `json:"order_type"`
	Fills        []orderbook.Fill `json:"fills,omitempty"`
	QtyRemaining uint64           `json:"qty_remaining"`
	Reason       orderbook.RejectReason `json:"reason,omitempty"`
}

func toRecord(symbol string, ev orderbook.Event) Record {
	return Record{
		Symbol:       symbol,
		Kind:         ev.Kind,
		OrderID:      ev.ID.String(),
		Side:         ev.Side,
		OrderType:    ev.OrderType,
		Fills:        ev.Fills,
		QtyRemaining: ev.QtyRemaining,
		Reason:       ev.Reason,
	}
}

// PublishEvent serializes ev as JSON and writes it to topic, keyed by
// symbol.
func (p *Publisher) PublishEvent(ctx context.Context, topic, symbol string, ev orderbook.Event) error {
	if p == nil || p.w == nil {
		return errors.New("publisher not initialized")
	}
	b, err := json.Marshal(toRecord(symbol, ev))
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   HashKey(symbol),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

// ConsumerConfig configures a batch consumer group over the event
// topic.
type ConsumerConfig struct {
	Brokers      []string
	GroupID      string
	Topic        string
	WorkerCount  int
	MaxRetries   int
	BackoffMin   time.Duration
	BackoffMax   time.Duration
	DLQTopic     string
	AutoCommit   bool
	BatchSize    int
	BatchTimeout time.Duration
}

// ConsumerGroup delivers batches of Message to a handler, retrying with
// backoff and routing exhausted batches to a dead-letter topic.
type ConsumerGroup struct {
	r          *kafka.Reader
	cfg        ConsumerConfig
	prodForDLQ *Publisher
}

func NewConsumerGroup(cfg ConsumerConfig) *ConsumerGroup {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMin == 0 {
		cfg.BackoffMin = 100 * time.Millisecond
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 200 * time.Millisecond
	}

	rd := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})

	var prod *Publisher
	if cfg.DLQTopic != "" {
		prod = NewPublisher(ProducerConfig{Brokers: cfg.Brokers})
	}

	return &ConsumerGroup{r: rd, cfg: cfg, prodForDLQ: prod}
}

func (cg *ConsumerGroup) Close() error {
	if cg == nil {
		return nil
	}
	if cg.prodForDLQ != nil {
		_ = cg.prodForDLQ.Close()
	}
	if cg.r != nil {
		return cg.r.Close()
	}
	return nil
}

// Run delivers batches of Message to handler, retrying failed batches
// up to cfg.MaxRetries before committing and, if configured, routing
// them to the dead-letter topic.
func (cg *ConsumerGroup) Run(ctx context.Context, handler func(context.Context, []Message) error) error {
	if cg == nil || cg.r == nil {
		return errors.New("consumer not initialized")
	}

	batches := make(chan []kafka.Message, cg.cfg.WorkerCount)

	go func() {
		defer close(batches)
		var buf []kafka.Message
		timer := time.NewTimer(cg.cfg.BatchTimeout)
		defer timer.Stop()
		for {
			m, err := cg.r.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				time.Sleep(200 * time.Millisecond)
				continue
			}
			buf = append(buf, m)
			if len(buf) >= cg.cfg.BatchSize {
				select {
				case batches <- buf:
					buf = nil
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(cg.cfg.BatchTimeout)
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case <-timer.C:
				if len(buf) > 0 {
					batches <- buf
					buf = nil
				}
				timer.Reset(cg.cfg.BatchTimeout)
			default:
			}
		}
	}()

	done := make(chan struct{})
	for i := 0; i < cg.cfg.WorkerCount; i++ {
		go func() {
			for ms := range batches {
				wrapped := make([]Message, len(ms))
				for i, m := range ms {
					wrapped[i] = wrapMessage(m)
				}
				var attempt int
				for {
					err := handler(ctx, wrapped)
					if err == nil {
						if cg.cfg.AutoCommit {
							_ = cg.r.CommitMessages(ctx, ms...)
						}
						break
					}
					attempt++
					if attempt > cg.cfg.MaxRetries {
						if cg.cfg.DLQTopic != "" && cg.prodForDLQ != nil {
							for _, m := range ms {
								_ = cg.prodForDLQ.w.WriteMessages(ctx, kafka.Message{
									Topic: cg.cfg.DLQTopic,
									Key:   m.Key,
									Value: m.Value,
								})
							}
						}
						if cg.cfg.AutoCommit {
							_ = cg.r.CommitMessages(ctx, ms...)
						}
						break
					}
					select {
					case <-time.After(retryBackoff(cg.cfg.BackoffMin, cg.cfg.BackoffMax, attempt)):
					case <-ctx.Done():
						return
					}
				}
			}
			done <- struct{}{}
		}()
	}

	var exited int
	for {
		select {
		case <-done:
			exited++
			if exited == cg.cfg.WorkerCount {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func wrapMessage(m kafka.Message) Message {
	headers := map[string]string{}
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Time:      m.Time,
		Headers:   headers,
		Raw:       m,
	}
}

func retryBackoff(min, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	pow := math.Pow(2, float64(attempt-1))
	d := time.Duration(float64(min) * pow)
	if d > max {
		d = max
	}
	if d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}

// HashKey derives a deterministic partition key from a symbol so all
// events for one book stay in order on one partition.
func HashKey(s string) []byte {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return b
}
