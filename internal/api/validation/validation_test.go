package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/uniconnect/internal/core"
)

func TestViolationsErr(t *testing.T) {
	v := Violations{}
	Required("title", "Lamp", v)
	require.NoError(t, v.Err())

	Required("price", "  ", v)
	Required("description", "", v)
	OneOf("status", "Stolen", []string{"Lost", "Found"}, v)

	err := v.Err()
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindBadRequest))
	assert.Equal(t, "Missing required fields: description, price. status must be one of Lost, Found.", err.Error())
}
