package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTaskType(t *testing.T) {
	assert.Equal(t, "SEMANTIC_SIMILARITY", parseTaskType(""))
	assert.Equal(t, "SEMANTIC_SIMILARITY", parseTaskType("bogus"))
	assert.Equal(t, "RETRIEVAL_QUERY", parseTaskType("RETRIEVAL_QUERY"))
	assert.Equal(t, "CLUSTERING", parseTaskType("CLUSTERING"))
}

func TestNewGenAIAdapter_RequiresKey(t *testing.T) {
	_, err := NewGenAIAdapter(context.Background(), "", "", "")
	assert.Error(t, err)
}
