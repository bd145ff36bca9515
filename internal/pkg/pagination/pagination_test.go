package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Normalizes(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "negative_page", page: -3, limit: 5, wantPage: 1, wantLimit: 5, wantOffset: 0},
		{name: "limit_capped", page: 2, limit: 500, wantPage: 2, wantLimit: 100, wantOffset: 100},
		{name: "third_page", page: 3, limit: 20, wantPage: 3, wantLimit: 20, wantOffset: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.limit, DefaultLimit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(New(2, 10, DefaultLimit), 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = GetMeta(New(1, 10, DefaultLimit), 10)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)

	meta = GetMeta(New(1, 10, DefaultLimit), 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}

func TestNewResult_EmptyDataIsNotNil(t *testing.T) {
	res := NewResult[int](nil, New(1, 10, DefaultLimit), 0)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}
