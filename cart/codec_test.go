package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeItemsAcceptsBrowserFormat(t *testing.T) {
	// numbers as the widget wrote them with JSON.stringify
	data := []byte(`[{"name":"Shirt","price":20,"img":"shirt.jpg","qty":2},{"name":"Hat","price":15.5,"img":"hat.jpg","qty":1}]`)

	items, err := decodeItems(data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Shirt", items[0].Name)
	assert.Equal(t, "20.00", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "shirt.jpg", items[0].ImageRef)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "15.50", items[1].UnitPrice.StringFixed(2))
}

func TestDecodeItemsEmpty(t *testing.T) {
	items, err := decodeItems(nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDecodeItemsRejectsGarbage(t *testing.T) {
	_, err := decodeItems([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEncodeItemsNil(t *testing.T) {
	data, err := encodeItems(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestMemoryRepositoryMissingKey(t *testing.T) {
	cart, err := NewMemoryRepository().Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
