package session

import (
	"context"
	"testing"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDiagnosis(micro string) *model.Diagnosis {
	return &model.Diagnosis{
		SessionID: "s1",
		Request:   model.CompatibilityRequest{Primary: "共感タイプ", Partner: "調和タイプ"},
		Payload: model.CompatibilityPayload{
			Micro:  model.Micro{Type: micro},
			Scores: map[string]model.Number{"共感": model.NumberOf(100)},
		},
		Result: model.InterpretedResult{
			DisplayMicroType: micro + "タイプ",
			Candidates:       []model.Candidate{{Name: "X"}},
		},
	}
}

func TestMemoryStore_TakeEmpty(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Take(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryStore_PutTakeDoesNotConsume(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDiagnosis("共感")))

	for range 2 {
		got, err := store.Take(ctx)
		require.NoError(t, err)
		assert.Equal(t, "共感タイプ", got.Result.DisplayMicroType)
	}
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDiagnosis("共感")))
	require.NoError(t, store.Put(ctx, testDiagnosis("刺激")))

	got, err := store.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "刺激", got.Payload.Micro.Type)
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	d := testDiagnosis("共感")
	require.NoError(t, store.Put(ctx, d))
	d.Result.Candidates[0].Name = "changed"
	d.Payload.Scores["共感"] = model.NumberOf(1)

	got, err := store.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Result.Candidates[0].Name)
	assert.Equal(t, 100.0, got.Payload.Scores["共感"].Value)

	got.Result.Candidates[0].Name = "changed again"
	again, err := store.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", again.Result.Candidates[0].Name)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDiagnosis("共感")))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Take(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_PutNil(t *testing.T) {
	assert.Error(t, NewMemoryStore().Put(context.Background(), nil))
}
