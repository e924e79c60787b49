package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Publisher ships aggregated log batches downstream (Kafka in production).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // max unique entries before an early flush
	Topic          string        // topic for aggregated logs
	Publisher      Publisher
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector deduplicates repeated error logs and flushes them in batches.
// A scanner retrying a dead endpoint every cycle produces one aggregated
// entry per flush window instead of hundreds of identical lines.
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	mutex  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())

	c := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		ctx:    ctx,
		cancel: cancel,
	}

	c.wg.Add(1)
	go c.periodicFlush()

	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := c.generateKey(level, message, caller)

	c.mutex.Lock()
	if entry, exists := c.logMap[key]; exists {
		entry.Count++
		entry.LastSeen = now
		entry.Fields = fields
	} else {
		c.logMap[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	full := c.config.CountThreshold > 0 && len(c.logMap) >= c.config.CountThreshold
	c.mutex.Unlock()

	if full {
		c.flush()
	}
}

func (c *LogCollector) periodicFlush() {
	defer c.wg.Done()

	interval := c.config.TimeInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			c.flush()
			return
		case <-ticker.C:
			c.flush()
		}
	}
}

func (c *LogCollector) flush() {
	c.mutex.Lock()
	if len(c.logMap) == 0 {
		c.mutex.Unlock()
		return
	}
	batch := make([]*AggregatedLogEntry, 0, len(c.logMap))
	for _, e := range c.logMap {
		batch = append(batch, e)
	}
	c.logMap = make(map[string]*AggregatedLogEntry)
	c.mutex.Unlock()

	if c.config.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.config.Publisher.PublishMessage(ctx, c.config.Topic, batch)
}

func (c *LogCollector) generateKey(level, message, caller string) string {
	h := sha256.Sum256([]byte(level + "|" + message + "|" + caller))
	return fmt.Sprintf("%x", h[:8])
}

// Snapshot returns the currently pending entries as JSON, for diagnostics.
func (c *LogCollector) Snapshot() ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return json.Marshal(c.logMap)
}

func (c *LogCollector) Close() {
	c.cancel()
	c.wg.Wait()
}
