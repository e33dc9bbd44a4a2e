package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/models"
)

func TestJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, w.OK([]models.Category{{ID: "c1", Name: "Shoes", Active: true}}, "1 category"))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "1 category", resp.Summary)
}

func TestErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, w.Err(apperr.ErrPrecondition("Shop ID is undefined")))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "Shop ID is undefined", resp.Error)
	assert.Equal(t, "precondition", resp.Code)
}

func TestErrorEnvelopeAuthHint(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, w.Err(apperr.ErrAuth("session expired")))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "Run: pasal auth login", resp.Hint)
}

func TestIDsFormat(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatIDs, Writer: &buf})

	require.NoError(t, w.OK([]models.Product{
		{ID: "p1", Name: "Sneaker"},
		{ID: "p2", Name: "Boot"},
	}, ""))
	assert.Equal(t, "p1\np2\n", buf.String())
}

func TestCountFormat(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatCount, Writer: &buf})

	require.NoError(t, w.OK([]models.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}, ""))
	assert.Equal(t, "3\n", buf.String())
}

func TestQuietFormatDropsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatQuiet, Writer: &buf})

	require.NoError(t, w.OK(models.Category{ID: "c1", Name: "Shoes"}, "summary text"))
	assert.NotContains(t, buf.String(), "summary text")
	assert.Contains(t, buf.String(), `"Shoes"`)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":       FormatAuto,
		"auto":   FormatAuto,
		"json":   FormatJSON,
		"styled": FormatStyled,
		"quiet":  FormatQuiet,
		"ids":    FormatIDs,
		"count":  FormatCount,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("bogus")
	assert.Error(t, err)
}

func TestStyledTableRendersRows(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatStyled, Writer: &buf})

	require.NoError(t, w.OK([]models.Category{
		{ID: "c1", Name: "Shoes", Active: true, ShopID: "s1"},
		{ID: "c2", Name: "Bags", Active: false, ShopID: "s1"},
	}, "2 categories"))

	out := buf.String()
	assert.Contains(t, out, "Shoes")
	assert.Contains(t, out, "Bags")
	assert.Contains(t, out, "2 categories")
}
