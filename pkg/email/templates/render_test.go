package templates_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargohub/authcore/pkg/email/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	c := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hello</p>")
		return err
	})
	out, err := templates.Render(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", out)
}

func TestRender_Error(t *testing.T) {
	t.Parallel()

	broken := templ.ComponentFunc(func(context.Context, io.Writer) error { return errors.New("boom") })
	_, err := templates.Render(context.Background(), broken)
	assert.EqualError(t, err, "boom")
}
