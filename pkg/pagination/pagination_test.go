package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
}

func TestFromQuery(t *testing.T) {
	q := url.Values{"page": {"2"}, "limit": {"50"}}
	assert.Equal(t, Params{Page: 2, Limit: 50}, FromQuery(q))

	q = url.Values{"page": {"junk"}}
	assert.Equal(t, Params{}, FromQuery(q))
}
