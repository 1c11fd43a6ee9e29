package parser

import (
	"fmt"
	"regexp"
	"strings"

	"gtp/internal/domain"
)

// AnchorKind identifies how a failure segment starts
type AnchorKind int

const (
	// AnchorNone means the segment has no recognized location, its body is the text as captured
	AnchorNone AnchorKind = iota
	// AnchorColon is the GCC style "path:line: "
	AnchorColon
	// AnchorParen is the MSVC style "path(line): "
	AnchorParen
	// AnchorFailure is a bare "Failure" line without a location
	AnchorFailure
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorColon:
		return "colon"
	case AnchorParen:
		return "paren"
	case AnchorFailure:
		return "failure"
	default:
		return "none"
	}
}

const bareFailureMarker = "Failure"

// anchorPattern matches a location anchor at the very start of a string.
// Groups: 1 path, 2 line (colon style), 3 line (paren style).
// The path never contains a colon other than a drive letter prefix or a quote. Only a
// rooted path may contain whitespace; a relative path needs a dot or a separator, so
// "12:30:" and "max(3):" are not locations.
var anchorPattern = regexp.MustCompile(
	`^((?:[A-Za-z]:)?[\\/][^:"\r\n]*?|[^\s:"']*?[.\\/][^\s:"']*?)` +
		`(?::(-?\d+):|\((-?\d+)\):)` +
		`(?:[ \t]+(?:error:[ \t]*|Failure[ \t]*(?:\r?\n|$))?|\r?\n|$)`)

// Segment is the part of a failure output that belongs to one assertion or exception
type Segment struct {
	Kind     AnchorKind
	Location *domain.SourceLocation // nil unless Kind is AnchorColon or AnchorParen
	Body     string
}

// ErrorReport is the structured form of a failure output
type ErrorReport struct {
	ErrorMessage    string
	ErrorStackTrace string
	Segments        []Segment
}

// Locations returns the locations of all segments that had one, in order
func (r ErrorReport) Locations() []domain.SourceLocation {
	var locations []domain.SourceLocation
	for _, s := range r.Segments {
		if s.Location != nil {
			locations = append(locations, *s.Location)
		}
	}
	return locations
}

// ErrorMessageParser turns the captured output of one failed test case into an
// error message and an error stack trace.
//
// The output is split into segments at every line that starts with a location
// anchor ("path:line: ", "path(line): ") or consists of a bare "Failure" marker.
// Anchors are only recognized at the start of a segment, so a path and line number
// quoted inside an exception description stay in the message.
//
// When more than one segment is found, every message body and every location is
// prefixed with "#k - ". The zero value is ready to use and safe for concurrent use.
type ErrorMessageParser struct{}

// NewErrorMessageParser creates a new ErrorMessageParser
func NewErrorMessageParser() *ErrorMessageParser {
	return &ErrorMessageParser{}
}

// Parse parses the raw failure output. It never fails: text without any
// recognizable anchor becomes the error message unchanged.
func (p *ErrorMessageParser) Parse(raw string) ErrorReport {
	segments := p.Segments(raw)
	report := ErrorReport{Segments: segments}

	switch len(segments) {
	case 0:
	case 1:
		report.ErrorMessage = segments[0].Body
		if segments[0].Location != nil {
			report.ErrorStackTrace = segments[0].Location.String()
		}
	default:
		messages := make([]string, 0, len(segments))
		var traces []string
		for i, segment := range segments {
			ref := fmt.Sprintf("#%d - ", i+1)
			messages = append(messages, ref+segment.Body)
			if segment.Location != nil {
				traces = append(traces, ref+segment.Location.String())
			}
		}
		report.ErrorMessage = strings.Join(messages, "\n")
		report.ErrorStackTrace = strings.Join(traces, "\n")
	}

	return report
}

// Segments splits raw into failure segments, left to right
func (p *ErrorMessageParser) Segments(raw string) []Segment {
	if raw == "" {
		return nil
	}

	var segments []Segment
	segStart := 0
	for pos := 0; ; {
		nl := strings.IndexByte(raw[pos:], '\n')
		if nl < 0 {
			break
		}
		lineStart := pos + nl + 1
		pos = lineStart
		if lineStart >= len(raw) {
			break
		}
		if !startsSegment(raw[lineStart:]) {
			continue
		}

		// The line break in front of an anchor separates segments and belongs to neither.
		end := lineStart - 1
		if end > segStart && raw[end-1] == '\r' {
			end--
		}
		text := raw[segStart:end]
		if segStart > 0 || strings.TrimSpace(text) != "" {
			segments = append(segments, parseSegment(text, segStart == 0))
		}
		segStart = lineStart
	}

	return append(segments, parseSegment(raw[segStart:], segStart == 0))
}

func startsSegment(s string) bool {
	return anchorPattern.MatchString(s) || isBareFailure(firstLine(s))
}

// parseSegment extracts the anchor at offset 0 of text. A bare "Failure" line only
// counts as an anchor when the segment does not start the whole output.
func parseSegment(text string, atStart bool) Segment {
	if m := anchorPattern.FindStringSubmatchIndex(text); m != nil {
		path := text[m[2]:m[3]]
		kind, line := AnchorColon, ""
		if m[4] >= 0 {
			line = text[m[4]:m[5]]
		} else {
			kind, line = AnchorParen, text[m[6]:m[7]]
		}
		return Segment{
			Kind:     kind,
			Location: &domain.SourceLocation{Path: path, File: fileName(path), Line: line},
			Body:     text[m[1]:],
		}
	}

	if !atStart && isBareFailure(firstLine(text)) {
		body := ""
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			body = text[nl+1:]
		}
		return Segment{Kind: AnchorFailure, Body: body}
	}

	return Segment{Kind: AnchorNone, Body: text}
}

func firstLine(s string) string {
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[:nl]
	}
	return strings.TrimSuffix(s, "\r")
}

func isBareFailure(line string) bool {
	return line == bareFailureMarker
}

// fileName returns the last element of a Windows or Unix path
func fileName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
