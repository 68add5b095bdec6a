package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placed() *OrderPlaced {
	a, b := "p-a", "p-b"
	return &OrderPlaced{
		Order: &model.Order{
			BaseModel: model.BaseModel{ID: "order-1", CreatedAt: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)},
			UserID:    "user-1",
			Total:     decimal.NewFromInt(350),
			Status:    model.OrderPending,
			Items: []model.OrderItem{
				{ProductID: &a, Quantity: 2, Price: decimal.NewFromInt(100), Product: &model.Product{Name: "Product A"}},
				{ProductID: &b, Quantity: 3, Price: decimal.NewFromInt(50), Product: &model.Product{Name: "Product B"}},
			},
		},
		UserName:  "Ada",
		UserEmail: "ada@example.com",
	}
}

func TestMailer_Render(t *testing.T) {
	m := NewMailer(MailerConfig{From: "shop@example.com", AppName: "Storefront", AppURL: "http://shop.test/"})

	msg, err := m.Render(placed())
	require.NoError(t, err)
	s := string(msg)

	assert.Contains(t, s, "To: ada@example.com\r\n")
	assert.Contains(t, s, "Subject: Order Confirmation #order-1\r\n")
	assert.Contains(t, s, "Hi Ada,")
	assert.Contains(t, s, "placed on 09 Mar 2024")
	assert.Contains(t, s, "- Product A x 2 - 200.00 EUR")
	assert.Contains(t, s, "- Product B x 3 - 150.00 EUR")
	assert.Contains(t, s, "Total: 350.00 EUR")
	assert.Contains(t, s, "http://shop.test/api/orders/order-1")
}

func TestMailer_NotifyUsesSender(t *testing.T) {
	var gotAddr string
	var gotTo []string
	m := NewMailer(MailerConfig{Host: "smtp.test", Port: 2525, From: "shop@example.com"}).
		WithSender(func(addr string, _ smtp.Auth, _ string, to []string, _ []byte) error {
			gotAddr, gotTo = addr, to
			return nil
		})

	require.NoError(t, m.NotifyOrderPlaced(context.Background(), placed()))
	assert.Equal(t, "smtp.test:2525", gotAddr)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
}

type fakeProducer struct {
	key   string
	value []byte
	err   error
}

func (p *fakeProducer) Publish(_ context.Context, key string, value []byte) error {
	p.key, p.value = key, value
	return p.err
}

func TestEventPublisher(t *testing.T) {
	prod := &fakeProducer{}
	require.NoError(t, NewEventPublisher(prod).NotifyOrderPlaced(context.Background(), placed()))
	assert.Equal(t, "order-1", prod.key)

	var event OrderCreatedEvent
	require.NoError(t, json.Unmarshal(prod.value, &event))
	assert.Equal(t, EventOrderCreated, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "ada@example.com", event.Payload.UserEmail)
	require.Len(t, event.Payload.Items, 2)
	assert.Equal(t, "Product B", event.Payload.Items[1].ProductName)

	back := event.OrderPlaced()
	assert.True(t, decimal.NewFromInt(350).Equal(back.Order.Total))
	assert.Equal(t, "Product A", back.Order.Items[0].Product.Name)
}

type failing struct{ err error }

func (f failing) NotifyOrderPlaced(context.Context, *OrderPlaced) error { return f.err }

func TestMulti_JoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	prod := &fakeProducer{}
	m := Multi{failing{errA}, NewEventPublisher(prod), failing{errB}, NewLogNotifier(logger.NewNop())}

	err := m.NotifyOrderPlaced(context.Background(), placed())
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, "order-1", prod.key)

	assert.NoError(t, Multi{}.NotifyOrderPlaced(context.Background(), placed()))
}

func TestHub_BroadcastsPlacedOrders(t *testing.T) {
	hub := NewHub([]string{"*"}, logger.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.NotifyOrderPlaced(context.Background(), placed()))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string      `json:"type"`
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "order.placed", msg.Type)
	assert.Equal(t, "order-1", msg.Data.ID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	check := originChecker([]string{"http://admin.test"})
	req := httptest.NewRequest("GET", "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://admin.test")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(req))
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func TestEventPublisher_PublishError(t *testing.T) {
	brokerDown := errors.New("broker down")
	prod := new(MockProducer)
	prod.On("Publish", mock.Anything, "order-1", mock.AnythingOfType("[]uint8")).Return(brokerDown).Once()

	err := NewEventPublisher(prod).NotifyOrderPlaced(context.Background(), placed())
	assert.ErrorIs(t, err, brokerDown)
	assert.Contains(t, err.Error(), "publish order created")
	prod.AssertExpectations(t)
}
