package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDDLDeclaresEveryTable(t *testing.T) {
	for _, table := range []string{"users", "categories", "products", "addresses", "cart_items", "orders", "order_items"} {
		assert.True(t, strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, ddl, "UNIQUE (user_id, product_id)")
}
