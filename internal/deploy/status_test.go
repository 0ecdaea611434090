package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainerList(t *testing.T) {
	output := `shop-app|shop:abc1234|running|127.0.0.1:3000->3000/tcp|Up 2 hours
shop-db|postgres:16|running|5432/tcp|Up 2 hours
shop-app|shop:abc1234|running|127.0.0.1:3000->3000/tcp|Up 2 hours
`

	rows := ParseContainerList(output)
	require.Len(t, rows, 2, "duplicate from the second filter must be dropped")

	assert.Equal(t, "shop-app", rows[0].Name)
	assert.Equal(t, "shop:abc1234", rows[0].Image)
	assert.Equal(t, "running", rows[0].State)
	assert.Equal(t, "127.0.0.1:3000->3000/tcp", rows[0].Ports)
	assert.Equal(t, "Up 2 hours", rows[0].Uptime)
	assert.Equal(t, "shop-db", rows[1].Name)
}

func TestParseContainerListEmpty(t *testing.T) {
	assert.Empty(t, ParseContainerList(""))
	assert.Empty(t, ParseContainerList("\n\n"))
	assert.Empty(t, ParseContainerList("not|enough|fields"))
}
