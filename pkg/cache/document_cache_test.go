package cache

import (
	"testing"

	"ai-pdfstudy-be/pkg/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "doctext:alice/biology.pdf", Key("alice", "biology.pdf"))
}

func TestEncodeDecodePreservesPageNumbers(t *testing.T) {
	original := document.NewText([]string{"one", "", "three"})

	raw, err := encode(original)
	require.NoError(t, err)
	back, err := decode(raw)
	require.NoError(t, err)

	assert.Equal(t, original, back)
	assert.Equal(t, 3, back.Pages[2].Number)
}

func TestDecodeRejectsCorruptEntry(t *testing.T) {
	_, err := decode([]byte("{not json"))
	assert.Error(t, err)
}
