package spamsift

import (
	"context"
	"sync"
	"time"
)

// BatchItem is the outcome for one message of a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Result *ClassificationResult
	Err    error
}

// BatchResult holds per-message outcomes in input order plus the count of
// messages that classified successfully.
type BatchResult struct {
	Items          []BatchItem
	Processed      int
	ProcessingTime time.Duration
}

// ClassifyBatch classifies messages concurrently and returns results in
// input order. A failure on one message never aborts the batch; it is
// recorded on that item alone.
func (m *Model) ClassifyBatch(ctx context.Context, messages []string, k int, alpha float64) *BatchResult {
	start := time.Now()
	items := make([]BatchItem, len(messages))

	var wg sync.WaitGroup
	for i, msg := range messages {
		wg.Add(1)
		go func(i int, msg string) {
			defer wg.Done()
			result, err := m.ClassifyWith(ctx, msg, k, alpha)
			items[i] = BatchItem{Result: result, Err: err}
		}(i, msg)
	}
	wg.Wait()

	processed := 0
	for _, item := range items {
		if item.Err == nil {
			processed++
		}
	}

	return &BatchResult{
		Items:          items,
		Processed:      processed,
		ProcessingTime: time.Since(start),
	}
}
