package agll

import (
	"testing"

	"github.com/arborix/cdtk/internal/lexer"
	"github.com/stretchr/testify/assert"
)

func Test_Compile_RejectsGrammarWithNoStartRule(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{"S": "@A"}, "S")
	g.SetStart("")

	_, err := Compile(g)
	assert.Error(err)
}

func Test_Parser_Parse_UnambiguousGrammarProducesFullDerivation(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"NUM", "PLUS"}, map[string]string{
		"Start": "@NUM (@PLUS @NUM)*",
	}, "Start")

	p, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %s", err)
	}
	tokens := []lexer.Token{tok("NUM", "1"), tok("PLUS", "+"), tok("NUM", "2")}
	root, diags, err := p.Parse(tokens, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	assert.False(diags.HasErrors())
	if root == nil {
		t.Fatalf("expected a derivation, got nil root")
	}
	assert.Equal(0, root.Left)
	assert.Equal(3, root.Right)
}

func Test_Parser_Parse_AmbiguousGrammarFallsBackToGLLAndReportsAmbiguity(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{
		"Start": "@A | @A",
	}, "Start")

	p, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %s", err)
	}
	root, _, err := p.Parse([]lexer.Token{tok("A", "a")}, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if root == nil {
		t.Fatalf("expected a derivation, got nil root")
	}
	assert.True(root.Ambiguous())
}

func Test_Parser_Parse_FailureDiagnosticsCarryAParseID(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A", "B"}, map[string]string{"Start": "@A @B"}, "Start")
	p, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %s", err)
	}

	_, diags, err := p.Parse([]lexer.Token{tok("A", "a")}, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	items := diags.Items()
	if len(items) == 0 {
		t.Fatalf("expected at least one diagnostic for an incomplete parse")
	}
	for _, d := range items {
		assert.NotEmpty(d.ParseID)
	}
}

func Test_Parser_Parse_UnknownStartRule_ReturnsError(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{"Start": "@A"}, "Start")
	p, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %s", err)
	}

	_, _, err = p.Parse([]lexer.Token{tok("A", "a")}, "NoSuchRule")
	assert.Error(err)
}

func Test_Parser_Parse_ReentrantCallOnSameParserFails(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{"Start": "@A"}, "Start")
	p, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %s", err)
	}

	p.busy.Store(true)
	_, _, reentryErr := p.Parse([]lexer.Token{tok("A", "a")}, "")
	p.busy.Store(false)
	assert.Error(reentryErr)
}
