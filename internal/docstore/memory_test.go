package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domain"
)

func TestMemoryAddGet(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("users")

	id, err := coll.Add(ctx, map[string]interface{}{"email": "a@b.com", "isVerified": false})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := coll.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", doc.Data["email"])
}

func TestMemoryGetMissing(t *testing.T) {
	coll := NewMemory().Collection("users")
	_, err := coll.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemorySetMergePreservesFields(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("users")

	id, err := coll.Add(ctx, map[string]interface{}{"email": "a@b.com", "firstName": "Asha"})
	require.NoError(t, err)

	require.NoError(t, coll.Set(ctx, id, map[string]interface{}{"lastName": "Rao"}, true))

	doc, err := coll.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha", doc.Data["firstName"])
	assert.Equal(t, "Rao", doc.Data["lastName"])
}

func TestMemorySetReplaceDropsFields(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("users")

	id, err := coll.Add(ctx, map[string]interface{}{"email": "a@b.com", "firstName": "Asha"})
	require.NoError(t, err)

	require.NoError(t, coll.Set(ctx, id, map[string]interface{}{"email": "a@b.com"}, false))

	doc, err := coll.Get(ctx, id)
	require.NoError(t, err)
	_, ok := doc.Data["firstName"]
	assert.False(t, ok)
}

func TestMemoryDeleteCounts(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("orders")

	id, err := coll.Add(ctx, map[string]interface{}{"orderNumber": "SJ-000001-1234"})
	require.NoError(t, err)

	count, err := coll.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = coll.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "deleting a missing id is a zero count, not an error")
}

func TestMemoryWhereLimit(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("orders")

	for i := 0; i < 3; i++ {
		_, err := coll.Add(ctx, map[string]interface{}{"customerEmail": "a@b.com"})
		require.NoError(t, err)
	}
	_, err := coll.Add(ctx, map[string]interface{}{"customerEmail": "other@b.com"})
	require.NoError(t, err)

	docs, err := coll.Where(ctx, "customerEmail", "a@b.com", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = coll.Where(ctx, "customerEmail", "a@b.com", 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMemoryAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("products")

	first, err := coll.Add(ctx, map[string]interface{}{"name": "first"})
	require.NoError(t, err)
	second, err := coll.Add(ctx, map[string]interface{}{"name": "second"})
	require.NoError(t, err)

	docs, err := coll.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first, docs[0].ID)
	assert.Equal(t, second, docs[1].ID)
}

func TestMemoryReturnsClones(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("users")

	id, err := coll.Add(ctx, map[string]interface{}{"cart": []interface{}{map[string]interface{}{"name": "ring"}}})
	require.NoError(t, err)

	doc, err := coll.Get(ctx, id)
	require.NoError(t, err)
	doc.Data["cart"] = []interface{}{}

	again, err := coll.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, again.Data["cart"], 1, "mutating a returned document must not touch the store")
}
