// AngelaMos | 2026
// prompt_test.go

package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/core"
)

func TestCompose_AllStyleLayoutCombinations(t *testing.T) {
	for _, style := range Styles() {
		for _, layout := range Layouts() {
			out, err := Compose(Input{
				CompanyName:     "Acme",
				Style:           style,
				Layout:          layout,
				PrimaryColor:    "blue",
				BackgroundColor: "white",
			})
			require.NoError(t, err, "style=%s layout=%s", style, layout)

			assert.Contains(t, out, styleClauses[style])
			assert.Contains(t, out, layoutClauses[layout])
			assert.Contains(t, out, "Primary color blue on a white background.")
			assert.Contains(t, out, "The company name is Acme.")
			assert.NotContains(t, out, "undefined")
		}
	}
}

func TestCompose_Deterministic(t *testing.T) {
	in := Input{
		CompanyName:     "Northwind",
		Style:           StyleMinimal,
		Layout:          LayoutStack,
		PrimaryColor:    "teal",
		BackgroundColor: "black",
		AdditionalInfo:  "use a lighthouse motif",
	}

	first, err := Compose(in)
	require.NoError(t, err)

	second, err := Compose(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompose_AdditionalInfoOmittedWhenBlank(t *testing.T) {
	out, err := Compose(Input{
		CompanyName:     "Acme",
		Style:           StyleTech,
		Layout:          LayoutSolo,
		PrimaryColor:    "red",
		BackgroundColor: "white",
		AdditionalInfo:  "   ",
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "Additional details")
}

func TestCompose_AdditionalInfoIncluded(t *testing.T) {
	out, err := Compose(Input{
		CompanyName:     "Acme",
		Style:           StyleTech,
		Layout:          LayoutSolo,
		PrimaryColor:    "red",
		BackgroundColor: "white",
		AdditionalInfo:  "incorporate a rocket",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(out, "Additional details: incorporate a rocket."))
}

func TestCompose_UnknownStyleRejected(t *testing.T) {
	_, err := Compose(Input{
		CompanyName:     "Acme",
		Style:           "vaporwave",
		Layout:          LayoutSolo,
		PrimaryColor:    "red",
		BackgroundColor: "white",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestCompose_UnknownLayoutRejected(t *testing.T) {
	_, err := Compose(Input{
		CompanyName:     "Acme",
		Style:           StyleTech,
		Layout:          "diagonal",
		PrimaryColor:    "red",
		BackgroundColor: "white",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("  Tech ")
	require.NoError(t, err)
	assert.Equal(t, StyleTech, style)

	_, err = ParseStyle("gothic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout("STACK")
	require.NoError(t, err)
	assert.Equal(t, LayoutStack, layout)

	_, err = ParseLayout("grid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}
