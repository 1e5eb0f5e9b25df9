// AngelaMos | 2026
// prompt.go

package prompt

import (
	"fmt"
	"strings"

	"github.com/angelamos/logoforge/internal/core"
)

type Style string

const (
	StyleTech     Style = "tech"
	StyleFlashy   Style = "flashy"
	StyleModern   Style = "modern"
	StylePlayful  Style = "playful"
	StyleAbstract Style = "abstract"
	StyleMinimal  Style = "minimal"
)

type Layout string

const (
	// LayoutSolo renders the icon alone, centered.
	LayoutSolo Layout = "solo"
	// LayoutSide renders icon and company name side by side.
	LayoutSide Layout = "side"
	// LayoutStack renders the icon above the company name.
	LayoutStack Layout = "stack"
)

var styleClauses = map[Style]string{
	StyleTech:     "highly detailed, sharp focus, sleek and futuristic, clean lines with a precision-engineered feel",
	StyleFlashy:   "flashy, attention grabbing, bold and futuristic, vibrant neon colors with glossy metallic accents",
	StyleModern:   "modern and forward-thinking, flat design with geometric shapes, clean lines and subtle accents",
	StylePlayful:  "playful and lighthearted, bright bold colors, rounded friendly shapes full of energy",
	StyleAbstract: "abstract and artistic, creative use of unique shapes, clever negative space and distinctive composition",
	StyleMinimal:  "minimal and simple, timeless and versatile, reduced to essential forms with generous whitespace",
}

var layoutClauses = map[Layout]string{
	LayoutSolo:  "a single centered icon with no text",
	LayoutSide:  "the icon and company name arranged side by side on one line",
	LayoutStack: "the icon on top with the company name stacked directly beneath it",
}

func Styles() []Style {
	return []Style{
		StyleTech,
		StyleFlashy,
		StyleModern,
		StylePlayful,
		StyleAbstract,
		StyleMinimal,
	}
}

func Layouts() []Layout {
	return []Layout{LayoutSolo, LayoutSide, LayoutStack}
}

func ParseStyle(s string) (Style, error) {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styleClauses[style]; !ok {
		return "", fmt.Errorf("unknown style %q: %w", s, core.ErrInvalidInput)
	}
	return style, nil
}

func ParseLayout(s string) (Layout, error) {
	layout := Layout(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := layoutClauses[layout]; !ok {
		return "", fmt.Errorf("unknown layout %q: %w", s, core.ErrInvalidInput)
	}
	return layout, nil
}

type Input struct {
	CompanyName     string
	Style           Style
	Layout          Layout
	PrimaryColor    string
	BackgroundColor string
	AdditionalInfo  string
}

// Compose maps a structured request to the upstream image prompt. It is
// deterministic and rejects unknown style or layout values rather than
// interpolating an empty clause.
func Compose(in Input) (string, error) {
	styleClause, ok := styleClauses[in.Style]
	if !ok {
		return "", fmt.Errorf(
			"compose prompt: unknown style %q: %w",
			in.Style,
			core.ErrInvalidInput,
		)
	}

	layoutClause, ok := layoutClauses[in.Layout]
	if !ok {
		return "", fmt.Errorf(
			"compose prompt: unknown layout %q: %w",
			in.Layout,
			core.ErrInvalidInput,
		)
	}

	var b strings.Builder

	fmt.Fprintf(
		&b,
		"A single logo, high-quality, award-winning professional design, made for both digital and print media. The logo style is %s.",
		styleClause,
	)
	fmt.Fprintf(&b, " The layout shows %s.", layoutClause)
	fmt.Fprintf(
		&b,
		" Primary color %s on a %s background.",
		in.PrimaryColor,
		in.BackgroundColor,
	)
	fmt.Fprintf(&b, " The company name is %s.", in.CompanyName)

	if info := strings.TrimSpace(in.AdditionalInfo); info != "" {
		fmt.Fprintf(&b, " Additional details: %s.", info)
	}

	return b.String(), nil
}
