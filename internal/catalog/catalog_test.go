package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 11, c.Len())
	assert.Equal(t, "coins", c.IDs()[0])

	d, ok := c.Get("coins")
	require.True(t, ok)
	assert.Equal(t, 500, d.Min)
	assert.Equal(t, 727, d.Max)

	_, ok = c.Get("unobtainium")
	assert.False(t, ok)
}

func TestLookupIgnoresCase(t *testing.T) {
	c := Default()
	for _, name := range []string{"Big bones", "big BONES", "  big bones "} {
		id, ok := c.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, "big_bones", id)
	}
	_, ok := c.Lookup("Unobtainium")
	assert.False(t, ok)
}

func TestDropsIsACopy(t *testing.T) {
	c := Default()
	drops := c.Drops()
	drops[0].Name = "changed"
	d, _ := c.Get("coins")
	assert.Equal(t, "Coins", d.Name)
}
