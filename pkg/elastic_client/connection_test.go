package elastic_client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectSkipsWhenUnconfigured(t *testing.T) {
	t.Setenv("DRIVERPORTAL_ELASTICSEARCH_ADDRESS", "")

	assert.NoError(t, Connect(false))
	assert.Nil(t, Client)
	assert.Error(t, Connect(true))
}

func TestIndexDocumentWithoutClient(t *testing.T) {
	assert.NotPanics(t, func() {
		IndexDocument("driverportal-lookups", map[string]string{"outcome": "found"})
		WaitUntilQueueEmpty(context.Background())
	})
}
