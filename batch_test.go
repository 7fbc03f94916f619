package spamsift_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FrenchMajesty/spamsift"
	"github.com/FrenchMajesty/spamsift/pkg/testutil"
)

// TestClassifyBatch_OrderAndIsolation: results come back in input order and a
// failing message does not poison its neighbors.
func TestClassifyBatch_OrderAndIsolation(t *testing.T) {
	index, err := spamsift.NewLocalIndex(twoExampleFixture())
	if err != nil {
		t.Fatalf("NewLocalIndex failed: %v", err)
	}
	model, err := spamsift.NewModel(spamsift.Config{
		Embedding:        testutil.WordEmbedder(fixtureEmbeddings(), []float32{0, 1}),
		Index:            index,
		MaxMessageLength: 25,
		ModelConfig:      spamsift.ModelConfig{K: 1, TrainedAt: time.Now()},
	})
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	messages := []string{
		"free money now",
		"this message runs well past the length limit",
		"let's meet for lunch",
		"",
	}

	batch := model.ClassifyBatch(context.Background(), messages, 1, 0)

	if len(batch.Items) != len(messages) {
		t.Fatalf("got %d items, want %d", len(batch.Items), len(messages))
	}
	if batch.Processed != 2 {
		t.Errorf("processed = %d, want 2", batch.Processed)
	}

	if item := batch.Items[0]; item.Err != nil || item.Result == nil || !item.Result.IsSpam {
		t.Errorf("item 0: got (%+v, %v), want spam result", item.Result, item.Err)
	}
	if item := batch.Items[1]; !errors.Is(item.Err, spamsift.ErrMessageTooLong) {
		t.Errorf("item 1: error = %v, want ErrMessageTooLong", item.Err)
	}
	if item := batch.Items[2]; item.Err != nil || item.Result == nil || item.Result.IsSpam {
		t.Errorf("item 2: got (%+v, %v), want ham result", item.Result, item.Err)
	}
	if item := batch.Items[3]; !errors.Is(item.Err, spamsift.ErrEmptyMessage) {
		t.Errorf("item 3: error = %v, want ErrEmptyMessage", item.Err)
	}
}

func TestClassifyBatch_Empty(t *testing.T) {
	model := newTestModel(t, twoExampleFixture(), fixtureEmbeddings(), []float32{0, 1})

	batch := model.ClassifyBatch(context.Background(), nil, 1, 0)
	if len(batch.Items) != 0 || batch.Processed != 0 {
		t.Errorf("empty batch: got %d items, %d processed", len(batch.Items), batch.Processed)
	}
}
