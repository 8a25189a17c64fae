package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
	}{
		{"defaults", 0, 0, Params{Page: 1, Limit: 9}},
		{"negative", -3, -1, Params{Page: 1, Limit: 9}},
		{"clamped", 2, 500, Params{Page: 2, Limit: 100}},
		{"kept", 4, 20, Params{Page: 4, Limit: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.page, tt.limit))
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), New(1, 9).Skip())
	assert.Equal(t, int64(18), New(3, 9).Skip())
}

func TestNewPage_HasNextIffMoreRemain(t *testing.T) {
	for total := int64(0); total <= 40; total++ {
		for limit := 1; limit <= 12; limit++ {
			for page := 1; page <= 6; page++ {
				p := NewPage([]int{}, total, New(page, limit))

				assert.Equal(t, int64(page*limit) < total, p.HasNextPage,
					"total=%d limit=%d page=%d", total, limit, page)
				assert.Equal(t, int((total+int64(limit)-1)/int64(limit)), p.TotalPages)
			}
		}
	}
}

func TestNewPage_NilItemsBecomeEmpty(t *testing.T) {
	p := NewPage[string](nil, 0, New(1, 9))
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
}

func TestMap(t *testing.T) {
	in := NewPage([]int{1, 2, 3}, 12, New(2, 3))
	out := Map(in, func(i int) string { return string(rune('a' + i)) })

	assert.Equal(t, []string{"b", "c", "d"}, out.Items)
	assert.Equal(t, in.Total, out.Total)
	assert.Equal(t, in.TotalPages, out.TotalPages)
	assert.True(t, out.HasNextPage)
}
