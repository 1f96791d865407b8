package paging

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 10}},
		{"explicit", "page=3&limit=25", Params{Page: 3, Limit: 25}},
		{"limit capped", "limit=500", Params{Page: 1, Limit: 100}},
		{"garbage ignored", "page=abc&limit=-5", Params{Page: 1, Limit: 10}},
		{"zero page ignored", "page=0", Params{Page: 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FromQuery(q))
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), Params{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(10), Params{Page: 2, Limit: 10}.Skip())
	assert.Equal(t, int64(50), Params{Page: 6, Limit: 10}.Skip())
}

func TestSummarize(t *testing.T) {
	p1 := Params{Page: 1, Limit: 10}.Summarize(15)
	assert.Equal(t, Summary{CurrentPage: 1, TotalPages: 2, TotalCount: 15, HasNext: true, HasPrev: false}, p1)

	p2 := Params{Page: 2, Limit: 10}.Summarize(15)
	assert.Equal(t, Summary{CurrentPage: 2, TotalPages: 2, TotalCount: 15, HasNext: false, HasPrev: true}, p2)

	empty := Params{Page: 1, Limit: 10}.Summarize(0)
	assert.Equal(t, Summary{CurrentPage: 1, TotalPages: 0, TotalCount: 0, HasNext: false, HasPrev: false}, empty)
}
