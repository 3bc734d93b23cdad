package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestDefaults(t *testing.T) {
	req := NewPageRequest(0, -5, nil)
	assert.Equal(t, DefaultPage, req.GetPage())
	assert.Equal(t, DefaultPageSize, req.GetPageSize())
	assert.Equal(t, 0, req.GetOffset())

	var nilReq *PageRequest
	assert.Equal(t, DefaultPage, nilReq.GetPage())
	assert.Nil(t, nilReq.GetFilter())
}

func TestPageRequestOffset(t *testing.T) {
	req := NewPageRequest(3, 20, NewQueryFilter("name = ?", "bmw"))
	assert.Equal(t, 40, req.GetOffset())
	assert.Equal(t, "name = ?", req.GetFilter().Schema)
	assert.Equal(t, []interface{}{"bmw"}, req.GetFilter().Args)
}

func TestPageRequestOrDefaultOrders(t *testing.T) {
	req := NewPageRequest(2, 5, nil)
	withDefault := req.OrDefaultOrders("id DESC")
	assert.Equal(t, []string{"id DESC"}, withDefault.GetOrders())
	assert.Equal(t, 2, withDefault.GetPage())
	assert.Empty(t, req.GetOrders())

	ordered := NewPageRequest(1, 5, nil, "name ASC")
	assert.Same(t, ordered, ordered.OrDefaultOrders("id DESC"))
	assert.Equal(t, "page=1 size=5 order=name ASC", ordered.String())
}

func TestPaginationPages(t *testing.T) {
	p := NewPagination[int](NewPageRequest(1, 10, nil))
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.TotalPages())
	assert.False(t, p.HasNext())

	p.Total = 21
	assert.Equal(t, 3, p.TotalPages())
	assert.True(t, p.HasNext())

	p.Page = 3
	assert.False(t, p.HasNext())
}
