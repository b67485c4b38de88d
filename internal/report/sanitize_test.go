package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKeepsAllowedTags(t *testing.T) {
	out, err := Sanitize(`<h3>1. RESUMEN</h3><p>Texto con <b>énfasis</b>.</p><ul><li>uno</li></ul>`)
	require.NoError(t, err)
	assert.Equal(t, `<h3>1. RESUMEN</h3><p>Texto con <b>énfasis</b>.</p><ul><li>uno</li></ul>`, out)
}

func TestSanitizeDropsActiveContent(t *testing.T) {
	out, err := Sanitize(`<p>hola</p><script>alert(1)</script><style>p{}</style>`)
	require.NoError(t, err)
	assert.Equal(t, `<p>hola</p>`, out)
}

func TestSanitizeStripsAttributes(t *testing.T) {
	out, err := Sanitize(`<p onclick="x()" style="color:red">texto</p>`)
	require.NoError(t, err)
	assert.Equal(t, `<p>texto</p>`, out)
}

func TestSanitizeUnwrapsUnknownTags(t *testing.T) {
	out, err := Sanitize(`<table><tr><td>celda</td></tr></table><blockquote>cita</blockquote>`)
	require.NoError(t, err)
	assert.Equal(t, `celdacita`, out)
}

func TestSanitizeEscapesText(t *testing.T) {
	out, err := Sanitize(`<p>1 &lt; 2</p>`)
	require.NoError(t, err)
	assert.Equal(t, `<p>1 &lt; 2</p>`, out)
}

func TestSanitizeToleratesMalformedMarkup(t *testing.T) {
	out, err := Sanitize(`<p>abierto <b>negrita`)
	require.NoError(t, err)
	assert.Equal(t, `<p>abierto <b>negrita</b></p>`, out)
}

func TestSanitizeDropsComments(t *testing.T) {
	out, err := Sanitize(`<p>a</p><!-- oculto -->`)
	require.NoError(t, err)
	assert.Equal(t, `<p>a</p>`, out)
}

func TestSanitizeVoidTags(t *testing.T) {
	out, err := Sanitize(`línea<br>otra<hr>`)
	require.NoError(t, err)
	assert.Equal(t, `línea<br>otra<hr>`, out)
}
