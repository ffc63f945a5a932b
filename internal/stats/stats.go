// Package stats aggregates purchase and review activity from the event
// topics. Counters are in-process and reset on restart, they feed the
// management endpoint only and carry no business invariants.
package stats

import (
	"sync"

	"github.com/readora/market-service/pkg/kafka"
)

type Summary struct {
	Orders       int            `json:"orders"`
	Revenue      float64        `json:"revenue"`
	ByType       map[string]int `json:"byType"`
	Reviews      int            `json:"reviews"`
	RatingsTotal int            `json:"ratingsTotal"`
}

type Collector struct {
	mu           sync.Mutex
	orders       int
	revenue      float64
	byType       map[string]int
	reviews      int
	ratingsTotal int
}

func NewCollector() *Collector {
	return &Collector{
		byType: make(map[string]int),
	}
}

func (c *Collector) RecordOrder(ev kafka.OrderEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders++
	c.revenue += ev.Amount
	c.byType[ev.PurchaseType]++
}

func (c *Collector) RecordReview(ev kafka.ReviewEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviews++
	c.ratingsTotal += ev.Rating
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	byType := make(map[string]int, len(c.byType))
	for k, v := range c.byType {
		byType[k] = v
	}
	return Summary{
		Orders:       c.orders,
		Revenue:      c.revenue,
		ByType:       byType,
		Reviews:      c.reviews,
		RatingsTotal: c.ratingsTotal,
	}
}
