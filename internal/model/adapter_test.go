package model

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
)

func TestCreateLowercasesEmail(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	created, err := users.Create(ctx, &domain.User{Email: "  Mira@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "mira@example.com", created.Email)
	require.NotEmpty(t, created.ID)

	found, err := users.FindOne(ctx, ByField("email", "mira@example.com"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	_, err := users.Create(ctx, &domain.User{Email: "mira@example.com"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Email: "MIRA@example.com"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreateRejectsEmptyEmail(t *testing.T) {
	users := Users(docstore.NewMemory())
	_, err := users.Create(context.Background(), &domain.User{})
	assert.True(t, domain.IsValidation(err))
}

func TestFindOneMissingIsNilNil(t *testing.T) {
	users := Users(docstore.NewMemory())

	u, err := users.FindOne(context.Background(), ByField("email", "nobody@example.com"))
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = users.FindOne(context.Background(), ByID("missing"))
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestFindOneUnqueryableField(t *testing.T) {
	users := Users(docstore.NewMemory())
	_, err := users.FindOne(context.Background(), ByField("firstName", "Mira"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedQuery)
}

func TestFindScanAndByField(t *testing.T) {
	ctx := context.Background()
	orders := Orders(docstore.NewMemory())

	for _, email := range []string{"a@b.com", "a@b.com", "c@d.com"} {
		_, err := orders.Create(ctx, &domain.Order{CustomerEmail: email, TotalAmount: 10})
		require.NoError(t, err)
	}

	all, err := orders.Find(ctx, All())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := orders.Find(ctx, ByField("customerEmail", "a@b.com"))
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestUpdateSetFieldsTouchesOnlyNamedFields(t *testing.T) {
	ctx := context.Background()
	orders := Orders(docstore.NewMemory())

	created, err := orders.Create(ctx, &domain.Order{
		CustomerEmail: "a@b.com",
		CustomerName:  "Asha",
		TotalAmount:   2499,
		Items:         []domain.OrderItem{{ProductID: "p1", Name: "Ring", Quantity: 1, Price: 2499}},
	})
	require.NoError(t, err)

	updated, err := orders.Update(ctx, ByID(created.ID), SetFields(map[string]interface{}{
		"status": domain.OrderShipped,
	}), UpdateOptions{})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, domain.OrderShipped, updated.Status)
	assert.Equal(t, "Asha", updated.CustomerName)
	assert.Equal(t, 2499.0, updated.TotalAmount)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Ring", updated.Items[0].Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateMissingIsNilNil(t *testing.T) {
	orders := Orders(docstore.NewMemory())
	o, err := orders.Update(context.Background(), ByID("missing"), SetFields(map[string]interface{}{
		"status": domain.OrderShipped,
	}), UpdateOptions{})
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestUpdatePushCreatesAndAppends(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	created, err := users.Create(ctx, &domain.User{Email: "mira@example.com"})
	require.NoError(t, err)

	first := domain.Address{ID: "a1", City: "Jaipur"}
	u, err := users.Update(ctx, ByID(created.ID), Push("addresses", first), UpdateOptions{})
	require.NoError(t, err)
	require.Len(t, u.Addresses, 1)

	second := domain.Address{ID: "a2", City: "Mumbai"}
	u, err = users.Update(ctx, ByID(created.ID), Push("addresses", second), UpdateOptions{})
	require.NoError(t, err)
	require.Len(t, u.Addresses, 2)
	assert.Equal(t, "Jaipur", u.Addresses[0].City)
	assert.Equal(t, "Mumbai", u.Addresses[1].City)
}

func TestUpdateSkipReturn(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	created, err := users.Create(ctx, &domain.User{Email: "mira@example.com"})
	require.NoError(t, err)

	u, err := users.Update(ctx, ByID(created.ID), SetFields(map[string]interface{}{
		"isVerified": true,
	}), UpdateOptions{SkipReturn: true})
	require.NoError(t, err)
	assert.Nil(t, u)

	found, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
}

func TestDeleteRequiresID(t *testing.T) {
	orders := Orders(docstore.NewMemory())
	_, err := orders.Delete(context.Background(), ByField("customerEmail", "a@b.com"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedQuery)
}

func TestDeleteMissingIsZeroCount(t *testing.T) {
	orders := Orders(docstore.NewMemory())
	count, err := orders.Delete(context.Background(), ByID("missing"))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSaveKeepsOrderNumber(t *testing.T) {
	ctx := context.Background()
	orders := Orders(docstore.NewMemory())

	created, err := orders.Create(ctx, &domain.Order{CustomerEmail: "a@b.com"})
	require.NoError(t, err)
	number := created.OrderNumber
	assert.Regexp(t, orderNumberRe, number)

	created.Status = domain.OrderProcessing
	saved, err := orders.Save(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, number, saved.OrderNumber, "re-saving must not regenerate the order number")

	found, err := orders.FindOne(ctx, ByField("orderNumber", number))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.OrderProcessing, found.Status)
}

func TestSaveMergePreservesStoredFields(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	created, err := users.Create(ctx, &domain.User{Email: "mira@example.com", FirstName: "Mira"})
	require.NoError(t, err)

	_, err = users.Update(ctx, ByID(created.ID), Push("cart", domain.CartLine{
		ProductID: "p1", Name: "Ring", Price: 999, Quantity: 1,
	}), UpdateOptions{SkipReturn: true})
	require.NoError(t, err)

	stale, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)
	stale.LastName = "Rao"
	_, err = users.Save(ctx, stale)
	require.NoError(t, err)

	found, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "Rao", found.LastName)
	assert.Len(t, found.Cart, 1)
}

// Full-document read-modify-write has no concurrency token. Two writers
// that both read before either writes will keep only the later write.
func TestLostUpdateUnderInterleavedSaves(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	created, err := users.Create(ctx, &domain.User{Email: "mira@example.com"})
	require.NoError(t, err)

	copyA, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)
	copyB, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)

	copyA.Cart = []domain.CartLine{{ProductID: "p1", Name: "Ring", Price: 999, Quantity: 1}}
	_, err = users.Save(ctx, copyA)
	require.NoError(t, err)

	copyB.Cart = []domain.CartLine{{ProductID: "p2", Name: "Chain", Price: 1499, Quantity: 1}}
	_, err = users.Save(ctx, copyB)
	require.NoError(t, err)

	found, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)
	require.Len(t, found.Cart, 1)
	assert.Equal(t, "p2", found.Cart[0].ProductID, "the second writer wins and the first cart write is lost")
}

func TestConcurrentPushesDoNotCorruptDocument(t *testing.T) {
	ctx := context.Background()
	users := Users(docstore.NewMemory())

	created, err := users.Create(ctx, &domain.User{Email: "mira@example.com"})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := users.Update(ctx, ByID(created.ID), Push("cart", domain.CartLine{
				ProductID: "p", Quantity: n + 1,
			}), UpdateOptions{SkipReturn: true})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	found, err := users.FindOne(ctx, ByID(created.ID))
	require.NoError(t, err)
	// Interleaved read-modify-write can drop pushes but never produces a
	// malformed document or more elements than writers.
	assert.NotEmpty(t, found.Cart)
	assert.LessOrEqual(t, len(found.Cart), writers)
	assert.Equal(t, "mira@example.com", found.Email)
}
