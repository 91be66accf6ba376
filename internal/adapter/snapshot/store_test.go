package snapshot

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Empty(t *testing.T) {
	s := New(nil)

	markers, at := s.Markers()
	assert.Empty(t, markers)
	assert.True(t, at.IsZero())
	assert.Nil(t, s.Overlay())
}

func TestStore_LoadBatchReplaces(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC))
	s := New(clk)

	first := []domain.Marker{{Popup: "a"}, {Popup: "b"}}
	require.NoError(t, s.LoadBatch(context.Background(), first))

	clk.Advance(5 * time.Minute)
	require.NoError(t, s.LoadBatch(context.Background(), []domain.Marker{{Popup: "c"}}))

	markers, at := s.Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, "c", markers[0].Popup)
	assert.Equal(t, time.Date(2024, 4, 26, 15, 5, 0, 0, time.UTC), at)
}

func TestStore_LoadBatchCopiesInput(t *testing.T) {
	s := New(nil)
	in := []domain.Marker{{Popup: "a"}}
	require.NoError(t, s.LoadBatch(context.Background(), in))

	in[0].Popup = "mutated"

	markers, _ := s.Markers()
	assert.Equal(t, "a", markers[0].Popup)
}

func TestStore_Overlay(t *testing.T) {
	s := New(nil)
	doc := json.RawMessage(`{"type":"FeatureCollection","features":[]}`)
	require.NoError(t, s.LoadOverlay(context.Background(), doc))

	doc[0] = 'X'
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(s.Overlay()))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.LoadBatch(context.Background(), []domain.Marker{{Popup: "x"}})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Markers()
		}()
	}
	wg.Wait()

	markers, _ := s.Markers()
	assert.Len(t, markers, 1)
}
