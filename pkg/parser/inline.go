package parser

import (
	"strings"

	"github.com/walteh/goadoc/pkg/antora"
	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/position"
)

// inline creates the inline elements found in tokens [from, to) as children of parent.
func (p *parser) inline(parent *ast.Element, from, to int) {
	for k := from; k < to; {
		switch p.at(k) {
		case lexer.AttributeRefStart:
			k = p.attributeReference(parent, k)
		case lexer.RefStart:
			k = p.crossReference(parent, k, to)
		case lexer.InlineMacroID:
			k = p.inlineMacro(parent, k, to)
		case lexer.BlockIDStart:
			k = p.inlineAnchor(parent, k, to)
		case lexer.URLStart, lexer.URLLink, lexer.URLEmail:
			k = p.url(parent, k, to)
		case lexer.LineComment:
			el := ast.NewElement(ast.KindComment, p.toks[k].RawPosition)
			el.Value = strings.TrimPrefix(p.toks[k].Text, "//")
			parent.Append(el)
			k++
		default:
			k++
		}
	}
}

// attributeReference builds {name} starting at token k and returns the index after it.
func (p *parser) attributeReference(parent *ast.Element, k int) int {
	if p.at(k+1) != lexer.AttributeRef || p.at(k+2) != lexer.AttributeRefEnd {
		return k + 1
	}
	name := p.toks[k+1]
	el := ast.NewElement(ast.KindAttributeReference, p.tokenSpan(k, k+3))
	el.Name = name.Text
	el.AddRef(&ast.Reference{
		Kind:     ast.RefAttribute,
		Target:   name.Text,
		Position: name.RawPosition,
	})
	parent.Append(el)
	return k + 3
}

// closing returns the index of the first token of type t in [k, to), or -1.
func (p *parser) closing(k, to int, t lexer.TokenType) int {
	for ; k < to; k++ {
		if p.at(k) == t {
			return k
		}
	}
	return -1
}

// crossReference builds <<target,label>>.
func (p *parser) crossReference(parent *ast.Element, k, to int) int {
	end := p.closing(k, to, lexer.RefEnd)
	if end < 0 || p.at(k+1) != lexer.Ref {
		return k + 1
	}
	target := p.toks[k+1]

	el := ast.NewElement(ast.KindReference, p.tokenSpan(k, end+1))
	el.Name = "<<"
	el.Value = target.Text
	parent.Append(el)
	if sep := p.closing(k+2, end, lexer.AttrSeparator); sep >= 0 {
		el.Title = strings.TrimSpace(p.tokenSpan(sep+1, end).Text)
		p.inline(el, sep+1, end)
	}
	anchorRefs(el, "<<", target.RawPosition)
	return end + 1
}

// inlineMacro builds name:target[attributes].
func (p *parser) inlineMacro(parent *ast.Element, k, to int) int {
	if p.at(k+1) != lexer.MacroSeparator {
		return k + 1
	}
	open := p.closing(k+2, to, lexer.AttributesStart)
	if open < 0 {
		return k + 1
	}
	end := p.closing(open, to, lexer.AttributesEnd)
	if end < 0 {
		return k + 1
	}

	el := ast.NewElement(ast.KindInlineMacro, p.tokenSpan(k, end+1))
	el.Name = p.toks[k].Text
	parent.Append(el)

	body := p.tokenSpan(k+2, open)
	el.Value = body.Text
	p.inline(el, k+2, open)

	switch el.Name {
	case "pass", "stem", "latexmath", "asciimath":
	default:
		el.Attrs = p.attributeList(el, open+1, end)
	}
	if el.Name == "anchor" {
		el.ID = body.Text
	}
	macroRefs(el, el.Name, body)
	return end + 1
}

// inlineAnchor builds [[id]] and [[id,reftext]] inside text.
func (p *parser) inlineAnchor(parent *ast.Element, k, to int) int {
	end := p.closing(k, to, lexer.BlockIDEnd)
	if end < 0 {
		return k + 1
	}
	el := ast.NewElement(ast.KindBlockID, p.tokenSpan(k, end+1))
	parent.Append(el)
	p.anchorFields(el, k, end+1)
	return end + 1
}

// url builds autolinks, <url> links and email addresses.
func (p *parser) url(parent *ast.Element, k, to int) int {
	from := k
	if p.at(k) == lexer.URLStart {
		k++
	}
	if t := p.at(k); t != lexer.URLLink && t != lexer.URLEmail {
		return from + 1
	}
	link := p.toks[k]
	end := k + 1
	if p.at(end) == lexer.URLEnd {
		end++
	}

	el := ast.NewElement(ast.KindURL, position.NewBasicPosition("", p.toks[from].Offset))
	el.Value = link.Text
	el.Name = "url"
	if link.Type == lexer.URLEmail {
		el.Name = "email"
	}
	parent.Append(el)

	if p.at(end) == lexer.AttributesStart {
		if last := p.closing(end, to, lexer.AttributesEnd); last >= 0 {
			el.Attrs = p.attributeList(el, end+1, last)
			end = last + 1
		}
	}
	el.RawPosition = p.tokenSpan(from, end)
	return end
}

// attributeList reads the entries of an attribute list in tokens [from, to).
func (p *parser) attributeList(parent *ast.Element, from, to int) ast.Attributes {
	var attrs ast.Attributes
	if from >= to {
		return attrs
	}

	entryStart := from
	flush := func(end int) {
		var attr ast.Attribute
		var sb strings.Builder
		first, last := -1, -1
		for j := entryStart; j < end; j++ {
			tok := p.toks[j]
			switch tok.Type {
			case lexer.WhiteSpace:
				if sb.Len() > 0 {
					sb.WriteString(tok.Text)
				}
				continue
			case lexer.AttrName:
				attr.Name = tok.Text
				sb.Reset()
			case lexer.AttrAssign:
			case lexer.AttributeRefStart:
				next := p.attributeReference(parent, j)
				sb.WriteString(p.tokenSpan(j, next).Text)
				j = next - 1
			default:
				sb.WriteString(tok.Text)
			}
			if first < 0 {
				first = j
			}
			last = j
		}
		attr.Value = unquote(strings.TrimSpace(sb.String()))
		if first >= 0 {
			attr.Position = p.tokenSpan(first, last+1)
		} else if entryStart < len(p.toks) {
			attr.Position = position.NewBasicPosition("", p.toks[entryStart].Offset)
		}
		attrs = append(attrs, attr)
	}

	for j := from; j < to; j++ {
		if p.at(j) == lexer.AttrSeparator {
			flush(j)
			entryStart = j + 1
		}
	}
	flush(to)
	return attrs
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		q := string(s[0])
		return strings.ReplaceAll(s[1:len(s)-1], `\`+q, q)
	}
	return s
}

func hasScheme(target string) bool {
	if i := strings.Index(target, "://"); i > 0 {
		return true
	}
	return strings.HasPrefix(target, "mailto:") || strings.HasPrefix(target, "data:")
}

// macroRefs attaches the references a macro body carries.
func macroRefs(el *ast.Element, name string, body position.RawPosition) {
	target := body.Text
	if target == "" {
		return
	}
	switch name {
	case "include":
		el.AddRef(fileRef(name, body, ""))
	case "image", "video", "audio":
		if hasScheme(target) {
			return
		}
		base := ""
		if name == "image" {
			base = "imagesdir"
		}
		el.AddRef(fileRef(name, body, base))
	case "link":
		if hasScheme(target) {
			return
		}
		el.AddRef(fileRef(name, body, ""))
	case "xref":
		anchorRefs(el, name, body)
	}
}

func fileRef(macro string, body position.RawPosition, basePath string) *ast.Reference {
	file, anchor, has := ast.SplitTarget(body.Text)
	return &ast.Reference{
		Kind:      ast.RefFile,
		Macro:     macro,
		Target:    body.Text,
		Position:  body,
		File:      file,
		Anchor:    anchor,
		HasAnchor: has,
		Antora:    antora.IsResourceID(file),
		BasePath:  basePath,
	}
}

// anchorRefs attaches the references of an xref target: an anchor alone, a
// document alone, or a document and an anchor inside it.
func anchorRefs(el *ast.Element, macro string, target position.RawPosition) {
	file, anchor, has := ast.SplitTarget(target.Text)
	isAntora := antora.IsResourceID(file)

	if !has && !isAntora && !strings.HasSuffix(file, ".adoc") {
		el.AddRef(&ast.Reference{
			Kind:      ast.RefAnchor,
			Macro:     macro,
			Target:    target.Text,
			Position:  target,
			Anchor:    target.Text,
			HasAnchor: true,
		})
		return
	}

	if file != "" {
		el.AddRef(&ast.Reference{
			Kind:      ast.RefFile,
			Macro:     macro,
			Target:    file,
			Position:  position.NewBasicPosition(file, target.Offset),
			File:      file,
			Anchor:    anchor,
			HasAnchor: has,
			Antora:    isAntora,
		})
	}
	if !has || anchor == "" {
		return
	}

	kind := ast.RefBlockID
	if file == "" {
		kind = ast.RefAnchor
	}
	el.AddRef(&ast.Reference{
		Kind:      kind,
		Macro:     macro,
		Target:    anchor,
		Position:  position.NewBasicPosition(anchor, target.Offset+len(file)+1),
		File:      file,
		Anchor:    anchor,
		HasAnchor: true,
		Antora:    isAntora,
	})
}

// isListLine reports whether the line at k starts a list item.
func (p *parser) isListLine(k int) bool {
	_, kind := p.listMarker(k)
	return kind != lexer.Invalid
}

// listMarker returns the index and type of the marker of a list item line
// starting at k, or Invalid.
func (p *parser) listMarker(k int) (int, lexer.TokenType) {
	j := k
	if p.at(j) == lexer.WhiteSpace {
		j++
	}
	switch t := p.at(j); t {
	case lexer.Bullet, lexer.Enumeration, lexer.Callout:
		return j, t
	}
	eol := p.lineEnd(k)
term:
	for ; j < eol; j++ {
		switch p.at(j) {
		case lexer.DescriptionMarker:
			return j, lexer.DescriptionMarker
		case lexer.Text, lexer.WhiteSpace, lexer.AttributeRefStart, lexer.AttributeRef, lexer.AttributeRefEnd:
		default:
			break term
		}
	}
	return k, lexer.Invalid
}

// listKey identifies the marker style a list item uses, so items with the
// same style share a list.
func listKey(marker string, t lexer.TokenType) string {
	switch t {
	case lexer.Callout:
		return "<>"
	case lexer.Enumeration:
		c := marker[0]
		switch {
		case c == '.':
			return marker
		case c >= '0' && c <= '9':
			return "1."
		case strings.HasSuffix(marker, ")"):
			if c >= 'a' && c <= 'z' {
				return "i)"
			}
			return "I)"
		case c >= 'a' && c <= 'z':
			return "a."
		default:
			return "A."
		}
	}
	return marker
}

func listType(t lexer.TokenType) ast.ListType {
	switch t {
	case lexer.Enumeration:
		return ast.ListOrdered
	case lexer.Callout:
		return ast.ListCallout
	case lexer.DescriptionMarker:
		return ast.ListDescription
	}
	return ast.ListUnordered
}

// listItem consumes a list item line and the text lines that follow it.
func (p *parser) listItem() {
	start := p.i
	m, kind := p.listMarker(start)
	marker := p.toks[m]
	key := listKey(marker.Text, kind)

	// an open list with the same marker continues; deeper lists close
	found := -1
	for s := len(p.stack) - 1; s > 0 && isListish(p.stack[s]); s-- {
		if el := p.stack[s]; el.Kind == ast.KindList && el.Name == key {
			found = s
			break
		}
	}

	if found >= 0 {
		p.continuation = false
		for len(p.stack)-1 > found {
			p.closeTop()
		}
	} else {
		list := ast.NewElement(ast.KindList, position.NewBasicPosition("", p.toks[start].Offset))
		list.Name = key
		list.List = listType(kind)
		list.Level = 1
		if parent := p.top(); parent.Kind == ast.KindListItem && (!p.blank || p.continuation) {
			list.Level = parent.Parent.Level + 1
			p.continuation = false
			p.attachPending(list)
			p.push(list)
		} else {
			p.beginBlock(list)
			p.stack = append(p.stack, list)
		}
	}
	p.blank = false

	item := ast.NewElement(ast.KindListItem, position.NewBasicPosition("", p.toks[start].Offset))
	item.Name = marker.Text
	p.push(item)

	if kind == lexer.DescriptionMarker {
		termFrom := p.trimStart(start, m)
		termTo := p.trimEnd(termFrom, m)
		title := p.title(item, termFrom, termTo)
		item.Title = title.Value
	}

	// the principal text starts on the marker line, or on the next line
	// when the marker line holds nothing else
	contentFrom := m + 1
	for p.at(contentFrom) == lexer.WhiteSpace {
		contentFrom++
	}
	end := contentFrom
	if p.at(contentFrom) == lexer.LineBreak && !p.endsParagraph(contentFrom+1) {
		contentFrom = p.trimStart(contentFrom+1, len(p.toks))
	}
	if p.at(contentFrom) != lexer.LineBreak {
		end = p.paragraphEnd(contentFrom)
	}
	to := p.trimEnd(contentFrom, end)
	if to > contentFrom {
		para := ast.NewElement(ast.KindBlock, position.NewBasicPosition("", p.toks[contentFrom].Offset))
		para.Block = ast.BlockParagraph
		item.Append(para)
		p.inline(para, contentFrom, to)
		p.finish(para, p.toks[to-1].End())
	} else {
		p.lastEnd = marker.End()
	}

	p.i = end
	p.skipLineBreak()
}
