package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParametersValidate(t *testing.T) {
	assert.NoError(t, QueryParameters{Text: "lung cancer", ResultCount: 10}.Validate())
	assert.ErrorIs(t, QueryParameters{Text: "", ResultCount: 10}.Validate(), ErrEmptyQuery)
	assert.ErrorIs(t, QueryParameters{Text: "x", ResultCount: 7}.Validate(), ErrInvalidResultCount)
}

func TestNextResultCount(t *testing.T) {
	assert.Equal(t, 10, NextResultCount(5, 1))
	assert.Equal(t, 5, NextResultCount(25, 1))
	assert.Equal(t, 25, NextResultCount(5, -1))
	assert.Equal(t, 5, NextResultCount(3, 1))
}
