package openai_test

import (
	"context"
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Name(t *testing.T) {
	t.Parallel()

	g := openai.NewGenerator(nil, "")

	assert.Equal(t, "openai", g.Name())
}

func TestGenerator_Generate_InvalidRequest(t *testing.T) {
	t.Parallel()

	g := openai.NewGenerator(nil, "") // nil client ok, validation fails first

	_, err := g.Generate(context.Background(), toolkit.GenerateRequest{})

	require.Error(t, err)
	assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
}
