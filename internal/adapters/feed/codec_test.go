package feed_test

import (
	"testing"
	"time"

	"cafe/internal/adapters/feed"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_OrderChange(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	event := ports.OrderChanged{
		OrderID:    kernel.NewUUID(),
		Kind:       ports.OrderUpdated,
		Status:     order.Processing,
		Version:    3,
		OccurredAt: at,
	}

	raw, err := feed.Encode(event)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"processing"`)

	decoded, err := feed.Decode(raw)
	require.NoError(t, err)
	assert.True(t, decoded.OrderID.IsEqual(event.OrderID))
	assert.Equal(t, ports.OrderUpdated, decoded.Kind)
	assert.Equal(t, order.Processing, decoded.Status)
	assert.Equal(t, int64(3), decoded.Version)
	assert.True(t, decoded.OccurredAt.Equal(at))
}

func TestEncodeDecode_Resync(t *testing.T) {
	raw, err := feed.Encode(feed.Resync(time.Now()))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "order_id")

	decoded, err := feed.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, ports.OrderResync, decoded.Kind)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"unknown kind", `{"kind":"exploded","order_id":"` + kernel.NewUUID().String() + `","status":"pending"}`},
		{"bad id", `{"kind":"created","order_id":"nope","status":"pending"}`},
		{"bad status", `{"kind":"created","order_id":"` + kernel.NewUUID().String() + `","status":"lost"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := feed.Decode([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
