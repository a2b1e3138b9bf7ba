package recommender

import (
	"fmt"
	"net/url"
	"strings"
)

// Default image search settings.
const (
	DefaultImageSearchTemplate = "https://www.google.com/search?tbm=isch&q=%s"
	DefaultImageSearchSuffix   = " yoga pose"
)

// LinkBuilder turns a pose name into an image search URL.
type LinkBuilder struct {
	// Template contains a %s placeholder that receives the escaped query.
	// Other percent signs are kept as written.
	Template string
	// Suffix is appended to the pose name before escaping.
	Suffix string
}

// NewLinkBuilder builds a LinkBuilder from config, falling back to the defaults.
func NewLinkBuilder(cfg ImageSearchConfig) LinkBuilder {
	lb := LinkBuilder{Template: cfg.URLTemplate, Suffix: cfg.Suffix}
	if lb.Template == "" {
		lb.Template = DefaultImageSearchTemplate
	}
	return lb
}

// ImageURL returns the image search link for pose.
func (b LinkBuilder) ImageURL(pose string) string {
	tmpl := b.Template
	if tmpl == "" {
		tmpl = DefaultImageSearchTemplate
	}
	return strings.Replace(tmpl, "%s", url.QueryEscape(pose+b.Suffix), 1)
}

// FeedbackKey identifies the feedback widget of one displayed pose. The row
// index keeps keys unique when a pose name appears more than once.
func FeedbackKey(pose string, row int) string {
	return fmt.Sprintf("feedback_%s_%d", pose, row)
}

// FilterPoses selects the records whose pain area equals label, ignoring case,
// in dataset order.
func FilterPoses(ds *Dataset, label string) []PoseMatch {
	if ds == nil {
		return nil
	}
	key := foldKey(label)
	var out []PoseMatch
	for i, r := range ds.records {
		if foldKey(r.PainArea) != key {
			continue
		}
		out = append(out, PoseMatch{Row: i, Record: cloneRecord(r)})
	}
	return out
}

// RenderEntries builds the display entries for matches in lang.
func RenderEntries(matches []PoseMatch, lang Language, links LinkBuilder) []DisplayEntry {
	heading := InstructionsHeading(lang)
	out := make([]DisplayEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, DisplayEntry{
			Row:                 m.Row,
			Pose:                m.Record.Pose,
			InstructionsHeading: heading,
			Instructions:        m.Record.InstructionsFor(lang),
			ImageURL:            links.ImageURL(m.Record.Pose),
			FeedbackKey:         FeedbackKey(m.Record.Pose, m.Row),
		})
	}
	return out
}

// RenderMarkdown formats a result as a markdown document.
func RenderMarkdown(res Result) string {
	var b strings.Builder
	b.WriteString(res.Message)
	b.WriteString("\n\n")
	for _, e := range res.Entries {
		fmt.Fprintf(&b, "### 🧘 %s\n\n", e.Pose)
		fmt.Fprintf(&b, "**%s** %s\n\n", e.InstructionsHeading, e.Instructions)
		fmt.Fprintf(&b, "[🖼️ Click for Pose Image](%s)\n\n", e.ImageURL)
		b.WriteString("**Was this pose helpful?**\n\n")
		b.WriteString("---\n\n")
	}
	return b.String()
}
