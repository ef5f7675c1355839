package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-features/internal/engine/sanitize"
)

type SanitizeTestSuite struct {
	suite.Suite
}

func TestSanitizeSuite(t *testing.T) {
	suite.Run(t, new(SanitizeTestSuite))
}

func (s *SanitizeTestSuite) TestSanitize() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "strong", input: "<strong>Foo</strong> bar", expected: "[[BOLD:Foo]] bar"},
		{name: "b", input: "<b>Foo</b> bar", expected: "[[BOLD:Foo]] bar"},
		{name: "em", input: "an <em>emphasized</em> word", expected: "an [[ITALIC:emphasized]] word"},
		{name: "i", input: "an <i>italic</i> word", expected: "an [[ITALIC:italic]] word"},
		{name: "uppercase tags with attributes", input: `<STRONG class="x">Loud</STRONG>`, expected: "[[BOLD:Loud]]"},
		{name: "nested emphasis", input: "<b>bold <i>and italic</i> text</b>", expected: "[[BOLD:bold [[ITALIC:and italic]] text]]"},
		{name: "line breaks", input: "one<br>two<br/>three<br />four", expected: "one\ntwo\nthree\nfour"},
		{name: "list items", input: "<ul><li>First</li><li>Second</li></ul>", expected: "First\nSecond\n"},
		{name: "unknown tags removed", input: `<p>Hello <span style="x">there</span></p>`, expected: "Hello there"},
		{name: "comparison text is kept", input: "if a < b and c > d", expected: "if a < b and c > d"},
		{name: "tabs become spaces", input: "a\tb", expected: "a b"},
		{name: "control characters deleted", input: "a\x00b\x07c\x1bd", expected: "abcd"},
		{name: "crlf normalized", input: "a\r\nb", expected: "a\nb"},
		{name: "unencodable characters deleted", input: "go → there ✓", expected: "go there"},
		{name: "windows-1252 punctuation kept", input: "“quoted” — café • item", expected: "“quoted” — café • item"},
		{name: "spaces collapsed", input: "a    b  c", expected: "a b c"},
		{name: "lines trimmed", input: "  a  \n   b ", expected: "a\nb"},
		{name: "blank lines collapsed", input: "a\n\n\n\n\nb", expected: "a\n\nb"},
		{name: "whitespace lines collapse", input: "a\n \n \n \nb", expected: "a\n\nb"},
		{name: "existing markers untouched", input: "[[BOLD:Name]]\nText", expected: "[[BOLD:Name]]\nText"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.expected, sanitize.Sanitize(tc.input))
		})
	}
}

func (s *SanitizeTestSuite) TestIdempotent() {
	inputs := []string{
		"<strong>Foo</strong> bar",
		"<<b>b>tricky</b>>",
		"<\x01b>hidden</b>",
		"<b \n >spread</b>",
		"a\t\t<br>\n\n\n\n<li>x</li>  y",
		"“smart” → arrows\r\nand\rreturns",
		"<i><b>mixed</i></b>",
		"   leading and trailing   ",
		"<b>unclosed",
		"a<b",
		"  nbsp \u0085next",
	}

	for _, input := range inputs {
		s.Run(input, func() {
			once := sanitize.Sanitize(input)
			s.Assert().Equal(once, sanitize.Sanitize(once))
		})
	}
}
