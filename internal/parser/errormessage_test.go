package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseDir                   = `C:\mypath\`
	dummyExecutable           = "myexecutable.exe"
	fullPathOfDummyExecutable = baseDir + dummyExecutable
)

func TestErrorMessageParser_Parse(t *testing.T) {
	parser := NewErrorMessageParser()

	tests := []struct {
		name          string
		input         string
		expectedMsg   string
		expectedTrace string
	}{
		{
			name:          "empty string",
			input:         "",
			expectedMsg:   "",
			expectedTrace: "",
		},
		{
			name:          "single message with gcc style location",
			input:         fullPathOfDummyExecutable + ":42: error: Expected: Foo\nActual: Bar",
			expectedMsg:   "Expected: Foo\nActual: Bar",
			expectedTrace: "myexecutable.exe:42",
		},
		{
			name:          "single unparsable message",
			input:         "Some weird error message",
			expectedMsg:   "Some weird error message",
			expectedTrace: "",
		},
		{
			name: "two messages",
			input: fullPathOfDummyExecutable + ":37: error: Expected: Yes\nActual: Maybe" +
				"\n" + fullPathOfDummyExecutable + ":42: Failure\nExpected: Foo\nActual: Bar",
			expectedMsg:   "#1 - Expected: Yes\nActual: Maybe\n#2 - Expected: Foo\nActual: Bar",
			expectedTrace: "#1 - myexecutable.exe:37\n#2 - myexecutable.exe:42",
		},
		{
			name: "differently formatted messages keep their order",
			input: fullPathOfDummyExecutable + "(37): error: Expected: Yes\nActual: Maybe" +
				"\n" + fullPathOfDummyExecutable + ":42: error: Expected: Foo\nActual: Bar",
			expectedMsg:   "#1 - Expected: Yes\nActual: Maybe\n#2 - Expected: Foo\nActual: Bar",
			expectedTrace: "#1 - myexecutable.exe:37\n#2 - myexecutable.exe:42",
		},
		{
			name:          "unix path with failure marker",
			input:         "/home/ci/src/foo_test.cc:12: Failure\nValue of: x\n  Actual: false\nExpected: true",
			expectedMsg:   "Value of: x\n  Actual: false\nExpected: true",
			expectedTrace: "foo_test.cc:12",
		},
		{
			name:          "negative line number is kept verbatim",
			input:         "/src/file.cpp:-179: error: boom",
			expectedMsg:   "boom",
			expectedTrace: "file.cpp:-179",
		},
		{
			name:          "location without message",
			input:         "/src/file.cpp:3: ",
			expectedMsg:   "",
			expectedTrace: "file.cpp:3",
		},
		{
			name:          "windows line endings between segments",
			input:         "a.cpp:1: error: first\r\nb.cpp:2: error: second",
			expectedMsg:   "#1 - first\n#2 - second",
			expectedTrace: "#1 - a.cpp:1\n#2 - b.cpp:2",
		},
		{
			name:          "path containing spaces and parentheses",
			input:         `C:\Program Files (x86)\suite\a_test.cpp(8): error: nope`,
			expectedMsg:   "nope",
			expectedTrace: "a_test.cpp:8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := parser.Parse(tt.input)
			assert.Equal(t, tt.expectedMsg, report.ErrorMessage)
			assert.Equal(t, tt.expectedTrace, report.ErrorStackTrace)
		})
	}
}

func TestErrorMessageParser_QuotedSourceLocation(t *testing.T) {
	parser := NewErrorMessageParser()

	for _, location := range []string{
		`c:\users\chris\git\googletestadapter\sampletests\tests\basictests.cpp:174`,
		`c:\users\chris\git\googletestadapter\sampletests\tests\basictests.cpp:-179`,
	} {
		t.Run(location, func(t *testing.T) {
			input := `unknown file: error: C++ exception with description "Assertion failed in ` +
				location + `" thrown in the test body.`

			report := parser.Parse(input)

			assert.Empty(t, report.ErrorStackTrace)
			assert.Contains(t, report.ErrorMessage, location)
			assert.Equal(t, input, report.ErrorMessage)
		})
	}
}

func TestErrorMessageParser_Segments(t *testing.T) {
	parser := NewErrorMessageParser()

	t.Run("anchor kinds", func(t *testing.T) {
		input := "a.cpp:1: error: one\n" +
			"b.cpp(2): error: two\n" +
			"Failure\nthree"

		segments := parser.Segments(input)

		require.Len(t, segments, 3)
		assert.Equal(t, AnchorColon, segments[0].Kind)
		assert.Equal(t, AnchorParen, segments[1].Kind)
		assert.Equal(t, AnchorFailure, segments[2].Kind)
		assert.Nil(t, segments[2].Location)
		assert.Equal(t, "three", segments[2].Body)
	})

	t.Run("bare failure at the start is not an anchor", func(t *testing.T) {
		input := "Failure\nExpected: 1\nActual: 2"

		report := parser.Parse(input)

		require.Len(t, report.Segments, 1)
		assert.Equal(t, AnchorNone, report.Segments[0].Kind)
		assert.Equal(t, input, report.ErrorMessage)
		assert.Empty(t, report.ErrorStackTrace)
	})

	t.Run("segment without location keeps its number", func(t *testing.T) {
		input := "a.cpp:1: error: one\nFailure\ntwo\nc.cpp:3: error: three"

		report := parser.Parse(input)

		assert.Equal(t, "#1 - one\n#2 - two\n#3 - three", report.ErrorMessage)
		assert.Equal(t, "#1 - a.cpp:1\n#3 - c.cpp:3", report.ErrorStackTrace)
	})

	t.Run("text before the first anchor is its own segment", func(t *testing.T) {
		input := "C++ exception thrown\nfoo.cpp:7: Failure\nbar"

		report := parser.Parse(input)

		assert.Equal(t, "#1 - C++ exception thrown\n#2 - bar", report.ErrorMessage)
		assert.Equal(t, "#2 - foo.cpp:7", report.ErrorStackTrace)
	})

	t.Run("blank text before the first anchor is dropped", func(t *testing.T) {
		report := parser.Parse("\nfoo.cpp:7: error: bar")

		assert.Equal(t, "bar", report.ErrorMessage)
		assert.Equal(t, "foo.cpp:7", report.ErrorStackTrace)
	})

	t.Run("anchor in the middle of a line does not split", func(t *testing.T) {
		for _, input := range []string{
			"see foo.cpp:7: error: bar",
			`Exception "foo.cpp:7: bar" thrown`,
			"first line\nsomething in foo.cpp:7: bar",
		} {
			report := parser.Parse(input)

			require.Len(t, report.Segments, 1)
			assert.Equal(t, input, report.ErrorMessage)
			assert.Empty(t, report.ErrorStackTrace)
		}
	})

	t.Run("body lines that only look like anchors stay in the message", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			body  string
		}{
			{
				name:  "call expressions",
				input: "/src/a.cpp:10: Failure\nValue of: f(1)\nmax(3) returned 2\nExpected: 3",
				body:  "Value of: f(1)\nmax(3) returned 2\nExpected: 3",
			},
			{
				name:  "call on its own line",
				input: "/src/a.cpp:10: Failure\ncall(7)\nnext",
				body:  "call(7)\nnext",
			},
			{
				name:  "call followed by a colon",
				input: "/src/a.cpp:10: Failure\ncount(2): too many",
				body:  "count(2): too many",
			},
			{
				name:  "clock time",
				input: "/src/a.cpp:10: Failure\nlog at\n12:30: worker started",
				body:  "log at\n12:30: worker started",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				report := parser.Parse(tt.input)

				require.Len(t, report.Segments, 1)
				assert.Equal(t, tt.body, report.ErrorMessage)
				assert.Equal(t, "a.cpp:10", report.ErrorStackTrace)
			})
		}
	})

	t.Run("relative paths need a dot or a separator", func(t *testing.T) {
		report := parser.Parse("src/foo_test.cc:5: error: one\nsub\\b_test(4): error: two\nMakefile:3: three")

		assert.Equal(t, "#1 - one\n#2 - two\nMakefile:3: three", report.ErrorMessage)
		assert.Equal(t, "#1 - foo_test.cc:5\n#2 - b_test:4", report.ErrorStackTrace)
	})

	t.Run("empty body between anchors", func(t *testing.T) {
		report := parser.Parse("a.cpp:1: error: \nb.cpp:2: error: two")

		assert.Equal(t, "#1 - \n#2 - two", report.ErrorMessage)
		assert.Equal(t, "#1 - a.cpp:1\n#2 - b.cpp:2", report.ErrorStackTrace)
	})

	t.Run("full path is kept for navigation", func(t *testing.T) {
		report := parser.Parse("/work/src/x_test.cc:9: Failure\nboom")

		locations := report.Locations()
		require.Len(t, locations, 1)
		assert.Equal(t, "/work/src/x_test.cc", locations[0].Path)
		assert.Equal(t, "x_test.cc", locations[0].File)
		assert.Equal(t, "9", locations[0].Line)
	})
}

func TestErrorMessageParser_Properties(t *testing.T) {
	parser := NewErrorMessageParser()

	inputs := []string{
		"plain",
		"a.cpp:1: error: x",
		"a.cpp:1: error: x\ny\nb.cpp:2: Failure\nz",
		"x\n/p/a.cpp(4): error: q\n/p/b.cpp:-1: r\nFailure\ns",
		"  leading\nFailure\nrest",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			report := parser.Parse(input)
			n := len(report.Segments)
			require.GreaterOrEqual(t, n, 1)

			if n == 1 {
				assert.NotContains(t, report.ErrorMessage, "#1 - ")
				assert.NotContains(t, report.ErrorStackTrace, "#1 - ")
				return
			}

			for i := 1; i <= n; i++ {
				assert.Contains(t, report.ErrorMessage, fmt.Sprintf("#%d - ", i))
			}
			assert.Equal(t, len(report.Locations()), strings.Count(report.ErrorStackTrace, " - "))
			assert.NotContains(t, report.ErrorStackTrace, "/")
		})
	}
}

func TestErrorMessageParser_ReparseKeepsNumbering(t *testing.T) {
	parser := NewErrorMessageParser()
	first := parser.Parse(fullPathOfDummyExecutable + ":37: error: Expected: Yes\nActual: Maybe")
	second := parser.Parse(fullPathOfDummyExecutable + ":42: Failure\nExpected: Foo\nActual: Bar")

	combined := fullPathOfDummyExecutable + ":37: error: " + first.ErrorMessage +
		"\n" + fullPathOfDummyExecutable + ":42: error: " + second.ErrorMessage
	report := parser.Parse(combined)

	assert.Equal(t, "#1 - Expected: Yes\nActual: Maybe\n#2 - Expected: Foo\nActual: Bar", report.ErrorMessage)
	assert.Equal(t, "#1 - "+first.ErrorStackTrace+"\n#2 - "+second.ErrorStackTrace, report.ErrorStackTrace)
}

func TestErrorMessageParser_ConcurrentUse(t *testing.T) {
	parser := NewErrorMessageParser()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := fmt.Sprintf("a.cpp:%d: error: one\nb.cpp:%d: error: two", i, i+1)
			report := parser.Parse(input)
			assert.Equal(t, fmt.Sprintf("#1 - a.cpp:%d\n#2 - b.cpp:%d", i, i+1), report.ErrorStackTrace)
		}(i)
	}
	wg.Wait()
}
