package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-nb2html/internal/latex"
)

// KindMathBlock is the NodeKind of $$ display math blocks.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// KindMathInline is the NodeKind of $ inline math spans.
var KindMathInline = ast.NewNodeKind("MathInline")

// MathBlock is a $$ ... $$ display math block.
type MathBlock struct {
	ast.BaseBlock
	closed bool
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// MathInline is a $ ... $ inline math span. Its content is kept verbatim.
type MathInline struct {
	ast.BaseInline
	Segment text.Segment
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

var mathFence = []byte("$$")

type mathBlockParser struct{}

func (p *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (p *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], mathFence) {
		return nil, parser.NoChildren
	}
	node := &MathBlock{}
	start := pos + len(mathFence)
	rest := bytes.TrimRight(line[start:], " \t\r\n")
	if i := bytes.LastIndex(rest, mathFence); i >= 0 {
		// One-line form: $$ x $$
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Start+start+i))
		node.closed = true
	} else if len(bytes.TrimSpace(rest)) > 0 {
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Start+start+len(rest)))
	}
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	body := bytes.TrimRight(line, " \t\r\n")
	if i := bytes.LastIndex(body, mathFence); i >= 0 {
		if len(bytes.TrimSpace(body[:i])) > 0 {
			n.Lines().Append(text.NewSegment(segment.Start, segment.Start+i))
		}
		reader.Advance(segment.Len() - 1)
		n.closed = true
		return parser.Close
	}
	n.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *mathBlockParser) CanInterruptParagraph() bool { return true }

func (p *mathBlockParser) CanAcceptIndentedLine() bool { return false }

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

func (p *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) < 3 || line[1] == '$' {
		return nil
	}
	end := bytes.IndexByte(line[1:], '$')
	if end <= 0 {
		return nil
	}
	end++
	node := &MathInline{Segment: text.NewSegment(segment.Start+1, segment.Start+end)}
	block.Advance(end + 1)
	return node
}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathBlock, r.renderBlock)
	reg.Register(KindMathInline, r.renderInline)
}

func (r *mathRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathBlock)
	var tex bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		tex.Write(seg.Value(source))
	}
	_, _ = w.WriteString(latex.Display(latex.Normalize(tex.String())))
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

// renderInline writes the span back with its delimiters; PostProcess turns it
// into an inline math element.
func (r *mathRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathInline)
	_ = w.WriteByte('$')
	_, _ = w.WriteString(html.EscapeString(string(n.Segment.Value(source))))
	_ = w.WriteByte('$')
	return ast.WalkSkipChildren, nil
}

type mathExtension struct{}

// Math is the goldmark extension for $ and $$ math.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 150)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 150)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&mathRenderer{}, 150)),
	)
}
