package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PaginationParams
		want PaginationParams
	}{
		{name: "zero value", in: PaginationParams{}, want: PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{name: "valid unchanged", in: PaginationParams{Page: 3, PageSize: 10}, want: PaginationParams{Page: 3, PageSize: 10}},
		{name: "clamped size", in: PaginationParams{Page: 1, PageSize: 1000}, want: PaginationParams{Page: 1, PageSize: MaxPageSize}},
		{name: "negative page", in: PaginationParams{Page: -2, PageSize: 5}, want: PaginationParams{Page: 1, PageSize: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
}
