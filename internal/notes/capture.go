// Package notes edits the AI-owned delimited regions of a markdown note
// file: the voice capture log, the voice summary, and the analysis history.
// All region markers are plain HTML comments so the rest of the note stays
// untouched and human-editable.
package notes

import "strings"

const (
	VoiceCaptureStart = "<!-- AI_VOICE_CAPTURE:START -->"
	VoiceCaptureEnd   = "<!-- AI_VOICE_CAPTURE:END -->"

	VoiceSummaryStart = "<!-- AI_VOICE_SUMMARY:START -->"
	VoiceSummaryEnd   = "<!-- AI_VOICE_SUMMARY:END -->"
)

// sessionMarkerPrefix opens a capture session line, e.g.
// [VOICE_SESSION 2025-12-22T17:00:00.000Z]
const sessionMarkerPrefix = "[VOICE_SESSION "

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// EnsureCaptureSection appends an empty capture region when the note has
// none. Existing regions are left alone.
func EnsureCaptureSection(markdown string) string {
	md := normalizeNewlines(markdown)
	if strings.Contains(md, VoiceCaptureStart) && strings.Contains(md, VoiceCaptureEnd) {
		return md
	}
	return strings.TrimRight(md, " \t\n") + "\n" + VoiceCaptureStart + "\n" + VoiceCaptureEnd + "\n"
}

// AppendCaptureLine inserts line just before the capture region's end
// marker, creating the region first when missing.
func AppendCaptureLine(markdown, line string) string {
	md := EnsureCaptureSection(markdown)
	idx := strings.LastIndex(md, VoiceCaptureEnd)
	if idx == -1 {
		return md
	}

	before := strings.TrimRight(md[:idx], " \t\n")
	after := md[idx:]
	return before + "\n" + line + "\n" + after
}

// CaptureLines returns the trimmed non-empty lines inside the capture
// region, or nil when the region is missing or malformed.
func CaptureLines(markdown string) []string {
	md := normalizeNewlines(markdown)
	start := strings.Index(md, VoiceCaptureStart)
	end := strings.Index(md, VoiceCaptureEnd)
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	content := md[start+len(VoiceCaptureStart) : end]
	var out []string
	for _, l := range strings.Split(content, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// SessionMarker renders the capture line that opens a new session.
func SessionMarker(timestamp string) string {
	return sessionMarkerPrefix + timestamp + "]"
}

func isSessionMarker(l string) bool {
	return strings.HasPrefix(l, sessionMarkerPrefix) && strings.HasSuffix(l, "]")
}

// LatestSession returns the id and lines of the most recent non-empty
// session. Sessions are walked from the end so empty trailing markers are
// skipped. Without any marker (or with only empty ones) the whole log is
// treated as one anonymous session and sessionID is empty.
func LatestSession(lines []string) (sessionID string, sessionLines []string) {
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		if !isSessionMarker(l) {
			continue
		}

		id := strings.TrimSuffix(strings.TrimPrefix(l, sessionMarkerPrefix), "]")
		var body []string
		for j := i + 1; j < len(lines); j++ {
			if isSessionMarker(lines[j]) {
				break
			}
			body = append(body, lines[j])
		}

		if len(body) == 0 {
			continue
		}
		return id, body
	}

	var body []string
	for _, l := range lines {
		if !isSessionMarker(l) {
			body = append(body, l)
		}
	}
	return "", body
}

// UpsertSummary replaces the summary region body with the given bullets,
// creating the region at the end of the note when missing. Lines already
// bulleted are kept as-is; an empty list writes a single "(empty)" bullet.
func UpsertSummary(markdown string, bulletLines []string) string {
	md := normalizeNewlines(markdown)

	if !strings.Contains(md, VoiceSummaryStart) || !strings.Contains(md, VoiceSummaryEnd) {
		md = strings.TrimRight(md, " \t\n") + "\n\n" + VoiceSummaryStart + "\n" + VoiceSummaryEnd + "\n"
	}

	start := strings.Index(md, VoiceSummaryStart)
	end := strings.Index(md, VoiceSummaryEnd)
	if start == -1 || end == -1 || end <= start {
		return md
	}

	before := md[:start+len(VoiceSummaryStart)]
	after := md[end:]

	body := "\n- (empty)\n"
	if len(bulletLines) > 0 {
		var b strings.Builder
		b.WriteString("\n")
		for i, l := range bulletLines {
			if i > 0 {
				b.WriteString("\n")
			}
			if !strings.HasPrefix(l, "- ") {
				b.WriteString("- ")
			}
			b.WriteString(l)
		}
		b.WriteString("\n")
		body = b.String()
	}

	return before + body + after
}
