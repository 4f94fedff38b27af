package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return f
}

func TestGenerateStructScalarFields(t *testing.T) {
	src := `package demo

//postcard:generate
type Header struct {
	Version int32
	Flags   uint8
	Name    string
}
`
	result, err := generate(parseSource(t, src))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.Contains(result, "package demo") {
		t.Error("expected package demo declaration")
	}
	if !strings.Contains(result, "var HeaderNode = &postcard.Node{") {
		t.Error("expected HeaderNode var")
	}
	for _, want := range []string{
		"c.AppendInt32(v.Version)",
		"c.AppendUint8(v.Flags)",
		"c.AppendString(v.Name)",
		"postcard.RegisterNode(reflect.TypeOf(Header{}), HeaderNode)",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected generated source to contain %q, got:\n%s", want, result)
		}
	}
}

func TestGenerateStructDelegatesNonScalarFields(t *testing.T) {
	src := `package demo

//postcard:generate
type Packet struct {
	Header Header
	Body   []byte
	Tail   *Header
}
`
	result, err := generate(parseSource(t, src))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(result, "postcard.Encode(c, &v.Header)") {
		t.Error("expected nested struct field to delegate to postcard.Encode")
	}
	if !strings.Contains(result, "c.AppendBytes(v.Body)") {
		t.Error("expected []byte field to use AppendBytes directly")
	}
	if !strings.Contains(result, "postcard.Encode(c, &v.Tail)") {
		t.Error("expected pointer field to delegate to postcard.Encode")
	}
}

func TestGenerateUnion(t *testing.T) {
	src := `package demo

//postcard:union variant=Ping,Pong
type Message interface {
	isMessage()
}
`
	result, err := generate(parseSource(t, src))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"var MessageDescriptor = postcard.UnionDescriptor[Message]{",
		"v.(Ping)",
		"v.(Pong)",
		"postcard.RegisterNode(reflect.TypeOf((*Message)(nil)).Elem(), postcard.NewUnionNode(MessageDescriptor))",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected generated source to contain %q, got:\n%s", want, result)
		}
	}
}

func TestGenerateNoAnnotatedDeclsErrors(t *testing.T) {
	src := `package demo

type Plain struct {
	X int
}
`
	if _, err := generate(parseSource(t, src)); err == nil {
		t.Error("expected an error when no //postcard:generate or //postcard:union declarations are present")
	}
}
