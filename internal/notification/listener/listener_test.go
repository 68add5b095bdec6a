package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/notification"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanReader struct {
	msgs chan kafka.Message
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

type recorder struct {
	mu   sync.Mutex
	got  []*notification.OrderPlaced
	done chan struct{}
}

func (r *recorder) NotifyOrderPlaced(_ context.Context, n *notification.OrderPlaced) error {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
	r.done <- struct{}{}
	return errors.New("smtp down")
}

func TestOrderListener_SendsConfirmation(t *testing.T) {
	productID := "p-1"
	event := notification.NewOrderCreatedEvent(&notification.OrderPlaced{
		Order: &model.Order{
			BaseModel: model.BaseModel{ID: "o-1", CreatedAt: time.Now()},
			Total:     decimal.NewFromInt(350),
			Items: []model.OrderItem{
				{ProductID: &productID, Quantity: 2, Price: decimal.NewFromInt(100), Product: &model.Product{Name: "A"}},
			},
		},
		UserName:  "Ada",
		UserEmail: "ada@example.com",
	})
	value, err := json.Marshal(event)
	require.NoError(t, err)

	reader := &chanReader{msgs: make(chan kafka.Message, 2)}
	reader.msgs <- kafka.Message{Value: []byte(`{"event_type":"Other"}`)}
	reader.msgs <- kafka.Message{Value: value}

	rec := &recorder{done: make(chan struct{}, 1)}
	l := NewOrderListener(reader, rec, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation not sent")
	}
	cancel()
	<-stopped

	require.Len(t, rec.got, 1)
	n := rec.got[0]
	assert.Equal(t, "ada@example.com", n.UserEmail)
	assert.Equal(t, "o-1", n.Order.ID)
	require.Len(t, n.Order.Items, 1)
	assert.Equal(t, "A", n.Order.Items[0].Product.Name)
	assert.True(t, decimal.NewFromInt(350).Equal(n.Order.Total))
}
