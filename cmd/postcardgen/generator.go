package main

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"
)

// structInfo is what postcardgen keeps from parsing one
// "//postcard:generate"-annotated struct declaration: enough to emit a
// static Node without needing reflect at generate time or at the
// generated code's runtime.
type structInfo struct {
	name   string
	fields []fieldInfo
}

type fieldInfo struct {
	name   string
	goType string // as written in source, e.g. "int32", "[]byte", "*Header"
}

// unionInfo is what postcardgen keeps from one "//postcard:union"-annotated
// interface declaration: the interface name and its variant types, in the
// order given by the annotation (that order becomes the wire discriminant,
// spec §9 "Tagged-union versioning").
type unionInfo struct {
	name     string
	variants []string
}

// scalarCodec names the WriteCursor/ReadCursor method pair (without the
// Append/Read prefix) used for a Go type postcardgen can encode inline
// without delegating to the reflection-based fallback.
var scalarCodec = map[string]string{
	"bool":    "Bool",
	"int8":    "Int8",
	"int16":   "Int16",
	"int32":   "Int32",
	"int64":   "Int64",
	"int":     "Isize",
	"uint8":   "Uint8",
	"uint16":  "Uint16",
	"uint32":  "Uint32",
	"uint64":  "Uint64",
	"uint":    "Usize",
	"float32": "Float32",
	"float64": "Float64",
	"string":  "String",
	"byte":    "Uint8",
}

// generate parses unit source for "//postcard:generate" structs and
// "//postcard:union" interfaces and emits the descriptor file described in
// doc.go. packageName is taken from the parsed file itself.
func generate(file *ast.File) (string, error) {
	var structs []structInfo
	var unions []unionInfo

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok.String() != "type" {
			continue
		}
		doc := gd.Doc
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			specDoc := ts.Doc
			if specDoc == nil {
				specDoc = doc
			}
			if specDoc == nil {
				continue
			}
			// Read the raw comment lines: CommentGroup.Text drops
			// directive-style comments such as "//postcard:generate".
			var sb strings.Builder
			for _, c := range specDoc.List {
				sb.WriteString(c.Text)
				sb.WriteByte('\n')
			}
			text := sb.String()

			switch t := ts.Type.(type) {
			case *ast.StructType:
				if !strings.Contains(text, "postcard:generate") {
					continue
				}
				si, err := structFromAST(ts.Name.Name, t)
				if err != nil {
					return "", fmt.Errorf("%s: %w", ts.Name.Name, err)
				}
				structs = append(structs, si)

			case *ast.InterfaceType:
				variants, ok := parseUnionDirective(text)
				if !ok {
					continue
				}
				unions = append(unions, unionInfo{name: ts.Name.Name, variants: variants})
			}
		}
	}

	if len(structs) == 0 && len(unions) == 0 {
		return "", fmt.Errorf("no //postcard:generate structs or //postcard:union interfaces found")
	}

	return render(file.Name.Name, structs, unions), nil
}

// parseUnionDirective extracts the comma-separated variant list from a
// "postcard:union variant=A,B,C" doc comment line.
func parseUnionDirective(doc string) ([]string, bool) {
	const marker = "postcard:union"
	idx := strings.Index(doc, marker)
	if idx < 0 {
		return nil, false
	}
	rest := doc[idx+len(marker):]
	const key = "variant="
	vi := strings.Index(rest, key)
	if vi < 0 {
		return nil, false
	}
	line := rest[vi+len(key):]
	if nl := strings.IndexAny(line, "\r\n"); nl >= 0 {
		line = line[:nl]
	}
	var variants []string
	for _, v := range strings.Split(line, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			variants = append(variants, v)
		}
	}
	if len(variants) == 0 {
		return nil, false
	}
	return variants, true
}

func structFromAST(name string, st *ast.StructType) (structInfo, error) {
	si := structInfo{name: name}
	for _, f := range st.Fields.List {
		typeStr := types.ExprString(f.Type)
		if len(f.Names) == 0 {
			return structInfo{}, fmt.Errorf("embedded field %q: postcardgen requires named fields", typeStr)
		}
		for _, n := range f.Names {
			si.fields = append(si.fields, fieldInfo{name: n.Name, goType: typeStr})
		}
	}
	return si, nil
}

// render builds the complete generated Go source, structgenerator.go-style:
// package line, sorted imports, then one block per declaration.
func render(packageName string, structs []structInfo, unions []unionInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by postcardgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", packageName)

	imports := map[string]bool{
		"unsafe":  true,
		"reflect": true,
		"github.com/jamesmunns/postcard-forth": true,
	}
	names := make([]string, 0, len(imports))
	for i := range imports {
		names = append(names, i)
	}
	sort.Strings(names)
	b.WriteString("import (\n")
	for _, i := range names {
		fmt.Fprintf(&b, "\t%q\n", i)
	}
	b.WriteString(")\n\n")

	for _, si := range structs {
		writeStructNode(&b, si)
	}
	for _, ui := range unions {
		writeUnionNode(&b, ui)
	}

	return b.String()
}

// writeStructNode emits a single static *postcard.Node for si: a Leaf whose
// Encode/Decode hit each field directly by name in declaration order,
// rather than walking a FieldDescriptor list. That's the concrete payoff of
// doing this at compile time instead of via NodeFor's reflection path: one
// function call per value instead of one EncodeWalk/DecodeWalk per field.
// Fields postcardgen doesn't have an inline scalar codec for (nested named
// types, slices, arrays, pointers) fall back to postcard.Encode/Decode,
// which resolves and caches a reflection-built Node for that field type the
// first time it's seen — the generated code only has to special-case the
// part that's worth special-casing.
func writeStructNode(b *strings.Builder, si structInfo) {
	fmt.Fprintf(b, "var %sNode = &postcard.Node{\n", si.name)
	b.WriteString("\tKind: postcard.NodeLeaf,\n")

	fmt.Fprintf(b, "\tEncode: func(c *postcard.WriteCursor, p unsafe.Pointer) error {\n")
	fmt.Fprintf(b, "\t\tv := (*%s)(p)\n", si.name)
	for _, f := range si.fields {
		if codec, ok := scalarCodec[f.goType]; ok {
			fmt.Fprintf(b, "\t\tif err := c.Append%s(v.%s); err != nil {\n\t\t\treturn err\n\t\t}\n", codec, f.name)
		} else if f.goType == "[]byte" {
			fmt.Fprintf(b, "\t\tif err := c.AppendBytes(v.%s); err != nil {\n\t\t\treturn err\n\t\t}\n", f.name)
		} else {
			fmt.Fprintf(b, "\t\tif err := postcard.Encode(c, &v.%s); err != nil {\n\t\t\treturn err\n\t\t}\n", f.name)
		}
	}
	b.WriteString("\t\treturn nil\n\t},\n")

	fmt.Fprintf(b, "\tDecode: func(c *postcard.ReadCursor, p unsafe.Pointer) error {\n")
	fmt.Fprintf(b, "\t\tv := (*%s)(p)\n", si.name)
	for _, f := range si.fields {
		if codec, ok := scalarCodec[f.goType]; ok {
			fmt.Fprintf(b, "\t\t{\n\t\t\tx, err := c.Read%s()\n\t\t\tif err != nil {\n\t\t\t\treturn err\n\t\t\t}\n\t\t\tv.%s = x\n\t\t}\n", codec, f.name)
		} else if f.goType == "[]byte" {
			fmt.Fprintf(b, "\t\t{\n\t\t\tx, err := c.ReadBytes()\n\t\t\tif err != nil {\n\t\t\t\treturn err\n\t\t\t}\n\t\t\tv.%s = x\n\t\t}\n", f.name)
		} else {
			fmt.Fprintf(b, "\t\tif err := postcard.Decode(c, &v.%s); err != nil {\n\t\t\treturn err\n\t\t}\n", f.name)
		}
	}
	b.WriteString("\t\treturn nil\n\t},\n")

	b.WriteString("}\n\n")

	fmt.Fprintf(b, "func init() { postcard.RegisterNode(reflect.TypeOf(%s{}), %sNode) }\n\n", si.name, si.name)
}

// writeUnionNode emits the UnionDescriptor/UnionVariant wiring for an
// interface-typed tagged union (spec §4.5), one type-switch case per
// variant named in the "//postcard:union variant=..." directive, in the
// order given — that order is what ends up on the wire as the variant
// index, so reordering the directive is a wire-breaking change.
func writeUnionNode(b *strings.Builder, ui unionInfo) {
	fmt.Fprintf(b, "var %sDescriptor = postcard.UnionDescriptor[%s]{\n", ui.name, ui.name)
	b.WriteString("\tVariants: []postcard.UnionVariant[" + ui.name + "]{\n")
	for _, variant := range ui.variants {
		fmt.Fprintf(b, "\t\t{\n")
		fmt.Fprintf(b, "\t\t\tMatches: func(v %s) bool { _, ok := v.(%s); return ok },\n", ui.name, variant)
		fmt.Fprintf(b, "\t\t\tEncode: func(c *postcard.WriteCursor, v %s) error { vv := v.(%s); return postcard.Encode(c, &vv) },\n", ui.name, variant)
		fmt.Fprintf(b, "\t\t\tDecode: func(c *postcard.ReadCursor) (%s, error) { var vv %s; err := postcard.Decode(c, &vv); return vv, err },\n", ui.name, variant)
		fmt.Fprintf(b, "\t\t},\n")
	}
	b.WriteString("\t},\n}\n\n")

	fmt.Fprintf(b, "func init() {\n")
	fmt.Fprintf(b, "\tpostcard.RegisterNode(reflect.TypeOf((*%s)(nil)).Elem(), postcard.NewUnionNode(%sDescriptor))\n", ui.name, ui.name)
	b.WriteString("}\n\n")
}
