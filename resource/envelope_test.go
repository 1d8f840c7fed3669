package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{
		"success": true,
		"message": "ok",
		"pagination": {"page": 2, "limit": 10, "total": 31, "pages": 4},
		"customers": [{"id": "1", "name": "A"}],
		"data": null
	}`))
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, "ok", env.Message)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 31, Pages: 4}, *env.Pagination)

	_, ok := env.Field("customers")
	assert.True(t, ok)
	_, ok = env.Field("data")
	assert.False(t, ok, "null fields count as absent")
	_, ok = env.Field("missing")
	assert.False(t, ok)
}

func TestDecodeEnvelope_EmptyBody(t *testing.T) {
	env, err := DecodeEnvelope([]byte("  "))
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Nil(t, env.Pagination)
}

func TestDecodeEnvelope_Invalid(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"success":"yes"}`))
	assert.Error(t, err)
}

func TestDecodeEnvelope_NonStringMessageIgnored(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"success":false,"message":{"code":1}}`))
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Empty(t, env.Message)
}

func TestField_FallbackOrder(t *testing.T) {
	unwrap := Field[item]("customer", "data")

	env, err := DecodeEnvelope([]byte(`{"success":true,"data":{"id":"2","name":"B"}}`))
	require.NoError(t, err)
	got, found, err := unwrap(env)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: "2", Name: "B"}, got)

	env, err = DecodeEnvelope([]byte(`{"success":true,"customer":{"id":"1","name":"A"},"data":{"id":"2"}}`))
	require.NoError(t, err)
	got, found, err = unwrap(env)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", got.ID)

	env, err = DecodeEnvelope([]byte(`{"success":true}`))
	require.NoError(t, err)
	_, found, err = unwrap(env)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestField_DecodeError(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"success":true,"data":"not an object"}`))
	require.NoError(t, err)

	_, _, err = Field[item]("data")(env)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}
