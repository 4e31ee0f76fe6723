package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/askviz/internal/testutil"
)

func deterministicStore(t *testing.T, ids ...string) (*Store, *testutil.DeterministicClock) {
	t.Helper()
	clock := testutil.NewDeterministicClock(time.Time{}, time.Minute)
	s := createTestStore(t,
		WithClock(clock.Now),
		WithIDGenerator(testutil.NewFixedIDGenerator(ids...)))
	return s, clock
}

func sample(question, chart string) Visualization {
	return Visualization{
		Question:  question,
		SQL:       `SELECT "region", SUM("sales") AS sum_sales FROM data GROUP BY "region"`,
		ChartType: chart,
		Payload:   json.RawMessage(`{"chart":"` + chart + `"}`),
	}
}

func TestSave_InsertDefaults(t *testing.T) {
	s, _ := deterministicStore(t, "viz-1", "viz-2")
	ctx := context.Background()

	first, err := s.Save(ctx, sample("total sales by region", "Bar"))
	require.NoError(t, err)
	assert.Equal(t, "viz-1", first.ID)
	assert.Equal(t, "Visualization 1", first.Name)
	assert.Equal(t, testutil.Epoch, first.CreatedAt)
	assert.Equal(t, int64(0), first.Views)
	assert.JSONEq(t, `{"chart":"Bar"}`, string(first.Payload))

	second, err := s.Save(ctx, sample("sales trend", "Line"))
	require.NoError(t, err)
	assert.Equal(t, "Visualization 2", second.Name)
	assert.Equal(t, testutil.Epoch.Add(time.Minute), second.CreatedAt)
}

func TestSave_ExplicitNameAndEmptyPayload(t *testing.T) {
	s, _ := deterministicStore(t, "viz-1")

	v := sample("q", "Table")
	v.Name = "Quarterly"
	v.Payload = nil
	saved, err := s.Save(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly", saved.Name)
	assert.JSONEq(t, `{}`, string(saved.Payload))
}

func TestSave_InvalidPayload(t *testing.T) {
	s, _ := deterministicStore(t, "viz-1")

	v := sample("q", "Bar")
	v.Payload = json.RawMessage(`{not json`)
	_, err := s.Save(context.Background(), v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload is not valid JSON")
}

func TestSave_UpdateKeepsIdentity(t *testing.T) {
	s, clock := deterministicStore(t, "viz-1")
	ctx := context.Background()

	orig, err := s.Save(ctx, sample("total sales", "Bar"))
	require.NoError(t, err)
	_, err = s.Get(ctx, orig.ID)
	require.NoError(t, err)

	upd := sample("total sales by product", "Pie")
	upd.ID = orig.ID
	got, err := s.Save(ctx, upd)
	require.NoError(t, err)

	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, "Visualization 1", got.Name, "name kept when not given")
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, "total sales by product", got.Question)
	assert.Equal(t, "Pie", got.ChartType)
	assert.Equal(t, int64(1), clock.Ticks(), "update does not read the clock")

	upd.Name = "Renamed"
	got, err = s.Save(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGet_CountsViews(t *testing.T) {
	s, _ := deterministicStore(t, "viz-1")
	ctx := context.Background()

	_, err := s.Save(ctx, sample("q", "Bar"))
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		v, err := s.Get(ctx, "viz-1")
		require.NoError(t, err)
		assert.Equal(t, want, v.Views)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := deterministicStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	// Identical timestamps: ordering must come from seq.
	s := createTestStore(t,
		WithClock(func() time.Time { return testutil.Epoch }),
		WithIDGenerator(testutil.NewFixedIDGenerator("b", "a", "c")))
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, sample(q, "Bar"))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "third", two[0].Question)

	v, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Views, "listing does not count views")
}

func TestList_Empty(t *testing.T) {
	s, _ := deterministicStore(t)

	all, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestDelete(t *testing.T) {
	s, _ := deterministicStore(t, "viz-1", "viz-2")
	ctx := context.Background()

	_, err := s.Save(ctx, sample("a", "Bar"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "viz-1"))
	_, err = s.Get(ctx, "viz-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "viz-1"), ErrNotFound)

	// The default name counts the records that remain.
	next, err := s.Save(ctx, sample("b", "Bar"))
	require.NoError(t, err)
	assert.Equal(t, "Visualization 1", next.Name)
}

func TestStats(t *testing.T) {
	s, _ := deterministicStore(t, "viz-1", "viz-2", "viz-3")
	ctx := context.Background()

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{ByChart: map[string]int64{}}, st)

	for _, chart := range []string{"Bar", "Line", "Bar"} {
		_, err := s.Save(ctx, sample("q", chart))
		require.NoError(t, err)
	}
	_, err = s.Get(ctx, "viz-1")
	require.NoError(t, err)
	_, err = s.Get(ctx, "viz-2")
	require.NoError(t, err)
	_, err = s.Get(ctx, "viz-2")
	require.NoError(t, err)

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Total:   3,
		Views:   3,
		ByChart: map[string]int64{"Bar": 2, "Line": 1},
	}, st)
}

func TestVisualization_JSON(t *testing.T) {
	v := Visualization{
		ID:        "viz-1",
		Name:      "Visualization 1",
		CreatedAt: testutil.Epoch,
		Question:  "q",
		SQL:       "SELECT 1",
		ChartType: "Bar",
		Payload:   json.RawMessage(`{"a":1}`),
		Views:     2,
	}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "viz-1",
		"name": "Visualization 1",
		"created_at": "2024-01-01T09:00:00Z",
		"question": "q",
		"sql": "SELECT 1",
		"chart_type": "Bar",
		"payload": {"a": 1},
		"views": 2
	}`, string(data))
}
