package ansi

import (
	"fmt"
	"image/color"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// SGR parameter codes.
const (
	sgrReset         = 0
	sgrBold          = 1
	sgrFaint         = 2
	sgrItalic        = 3
	sgrUnderline     = 4
	sgrInverse       = 7
	sgrStrike        = 9
	sgrNormal        = 22
	sgrNotItalic     = 23
	sgrNotUnderline  = 24
	sgrNotInverse    = 27
	sgrNotStrike     = 29
	sgrFGFirst       = 30
	sgrFGLast        = 37
	sgrFGExtended    = 38
	sgrFGDefault     = 39
	sgrBGFirst       = 40
	sgrBGLast        = 47
	sgrBGExtended    = 48
	sgrBGDefault     = 49
	sgrBrightFGFirst = 90
	sgrBrightFGLast  = 97
	sgrBrightBGFirst = 100
	sgrBrightBGLast  = 107
)

// Colours used for inverse video when no explicit colour is set.
var (
	inverseFG = cssColor(xansi.Black)
	inverseBG = cssColor(xansi.White)
)

// style is the text state accumulated from SGR sequences.
type style struct {
	fg, bg    string
	bold      bool
	faint     bool
	italic    bool
	underline bool
	inverse   bool
	strike    bool
}

// apply returns s updated by params. An empty list resets, like ESC [ m.
func (s style) apply(params xansi.Params) style {
	if len(params) == 0 {
		return style{}
	}
	for i := 0; i < len(params); i++ {
		p := params[i].Param(sgrReset)
		switch {
		case p == sgrReset:
			s = style{}
		case p == sgrBold:
			s.bold = true
		case p == sgrFaint:
			s.faint = true
		case p == sgrItalic:
			s.italic = true
		case p == sgrUnderline:
			s.underline = true
		case p == sgrInverse:
			s.inverse = true
		case p == sgrStrike:
			s.strike = true
		case p == sgrNormal:
			s.bold, s.faint = false, false
		case p == sgrNotItalic:
			s.italic = false
		case p == sgrNotUnderline:
			s.underline = false
		case p == sgrNotInverse:
			s.inverse = false
		case p == sgrNotStrike:
			s.strike = false
		case p >= sgrFGFirst && p <= sgrFGLast:
			s.fg = cssColor(xansi.BasicColor(p - sgrFGFirst))
		case p == sgrFGDefault:
			s.fg = ""
		case p >= sgrBGFirst && p <= sgrBGLast:
			s.bg = cssColor(xansi.BasicColor(p - sgrBGFirst))
		case p == sgrBGDefault:
			s.bg = ""
		case p >= sgrBrightFGFirst && p <= sgrBrightFGLast:
			s.fg = cssColor(xansi.BasicColor(p - sgrBrightFGFirst + 8))
		case p >= sgrBrightBGFirst && p <= sgrBrightBGLast:
			s.bg = cssColor(xansi.BasicColor(p - sgrBrightBGFirst + 8))
		case p == sgrFGExtended || p == sgrBGExtended:
			var c color.Color
			n := xansi.ReadStyleColor(params[i:], &c)
			if n == 0 {
				// Malformed colour: the remaining parameters are its operands.
				return s
			}
			i += n - 1
			if c == nil {
				continue
			}
			if p == sgrFGExtended {
				s.fg = cssColor(c)
			} else {
				s.bg = cssColor(c)
			}
		}
	}
	return s
}

// cssColor renders c as #rrggbb, or "" for a fully transparent colour.
func cssColor(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// css renders the style as an inline declaration list, or "" for the
// default style.
func (s style) css() string {
	fg, bg := s.fg, s.bg
	if s.inverse {
		fg, bg = bg, fg
		if fg == "" {
			fg = inverseFG
		}
		if bg == "" {
			bg = inverseBG
		}
	}

	var decls []string
	if fg != "" {
		decls = append(decls, "color:"+fg)
	}
	if bg != "" {
		decls = append(decls, "background-color:"+bg)
	}
	if s.bold {
		decls = append(decls, "font-weight:bold")
	}
	if s.faint {
		decls = append(decls, "opacity:0.7")
	}
	if s.italic {
		decls = append(decls, "font-style:italic")
	}
	switch {
	case s.underline && s.strike:
		decls = append(decls, "text-decoration:underline line-through")
	case s.underline:
		decls = append(decls, "text-decoration:underline")
	case s.strike:
		decls = append(decls, "text-decoration:line-through")
	}
	return strings.Join(decls, ";")
}
