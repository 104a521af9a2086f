package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Block kinds inside a multi-column page.
const (
	BlockText  = "text"
	BlockMedia = "media"
)

// ColumnBlock is one cell of a multi-column page: either inline text or a
// reference to an uploaded media record.
type ColumnBlock struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	MediaID string `json:"mediaId,omitempty"`
}

// ColumnsContent is the parsed form of a text-columns page.
type ColumnsContent struct {
	Layout string        `json:"layout"`
	Blocks []ColumnBlock `json:"blocks"`
}

// MasonryContent is the parsed form of a masonry page.
type MasonryContent struct {
	MediaIDs []string `json:"mediaIds"`
	Gap      int      `json:"gap"`
}

const defaultMasonryGap = 8

// ParseColumns decodes a stored text-columns payload. The stored string may
// be the current wrapper object, a legacy bare block array, or garbage; all
// three must come back renderable.
func ParseColumns(raw, fallbackLayout string) ColumnsContent {
	trimmed := strings.TrimSpace(raw)

	// Current shape: {"layout": "...", "blocks": [...]}
	var wrapper struct {
		Layout string        `json:"layout"`
		Blocks []ColumnBlock `json:"blocks"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err == nil && wrapper.Blocks != nil {
		layout := wrapper.Layout
		if layout == "" {
			layout = fallbackLayout
		}
		return ColumnsContent{Layout: layout, Blocks: wrapper.Blocks}
	}

	// Legacy shape: a bare array of blocks with no layout. Columns were
	// equal-width, so synthesize "1-1-..." with one segment per block.
	var legacy []ColumnBlock
	if err := json.Unmarshal([]byte(trimmed), &legacy); err == nil && legacy != nil {
		return ColumnsContent{Layout: equalLayout(len(legacy)), Blocks: legacy}
	}

	// Unparseable: rebuild empty text blocks matching the fallback layout.
	return ColumnsContent{
		Layout: fallbackLayout,
		Blocks: emptyTextBlocks(LayoutColCount(fallbackLayout)),
	}
}

// ParseMasonry decodes a stored masonry payload, substituting defaults for
// anything missing or malformed.
func ParseMasonry(raw string) MasonryContent {
	out := MasonryContent{MediaIDs: []string{}, Gap: defaultMasonryGap}

	var parsed struct {
		MediaIDs []string         `json:"mediaIds"`
		Gap      *json.RawMessage `json:"gap"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return out
	}
	if parsed.MediaIDs != nil {
		out.MediaIDs = parsed.MediaIDs
	}
	if parsed.Gap != nil {
		var gap float64
		if err := json.Unmarshal(*parsed.Gap, &gap); err == nil {
			out.Gap = int(gap)
		}
	}
	return out
}

// SerializeColumns encodes columns content into the stored wrapper shape.
func SerializeColumns(c ColumnsContent) string {
	if c.Blocks == nil {
		c.Blocks = []ColumnBlock{}
	}
	b, _ := json.Marshal(c)
	return string(b)
}

// SerializeMasonry encodes masonry content into its stored shape.
func SerializeMasonry(m MasonryContent) string {
	if m.MediaIDs == nil {
		m.MediaIDs = []string{}
	}
	b, _ := json.Marshal(m)
	return string(b)
}

// LayoutToGridCols converts a layout string like "1-2-1" to the CSS
// grid-template-columns value "1fr 2fr 1fr".
func LayoutToGridCols(layout string) string {
	segments := strings.Split(layout, "-")
	cols := make([]string, 0, len(segments))
	for _, s := range segments {
		cols = append(cols, s+"fr")
	}
	return strings.Join(cols, " ")
}

// LayoutColCount returns the number of columns a layout string describes.
func LayoutColCount(layout string) int {
	if layout == "" {
		return 1
	}
	return len(strings.Split(layout, "-"))
}

// SyncBlocks reconciles a block list with a new column count after a layout
// change: excess blocks are truncated from the tail, missing slots are filled
// with empty text blocks.
func SyncBlocks(blocks []ColumnBlock, count int) []ColumnBlock {
	if count < 1 {
		count = 1
	}
	if len(blocks) > count {
		return blocks[:count]
	}
	for len(blocks) < count {
		blocks = append(blocks, ColumnBlock{Type: BlockText, Content: ""})
	}
	return blocks
}

func equalLayout(n int) string {
	if n < 1 {
		n = 1
	}
	return strings.TrimSuffix(strings.Repeat("1-", n), "-")
}

func emptyTextBlocks(n int) []ColumnBlock {
	blocks := make([]ColumnBlock, 0, n)
	for i := 0; i < n; i++ {
		blocks = append(blocks, ColumnBlock{Type: BlockText, Content: ""})
	}
	return blocks
}

// ValidLayout reports whether a layout string matches N(-N)* with positive
// integer segments.
func ValidLayout(layout string) bool {
	if layout == "" {
		return false
	}
	for _, seg := range strings.Split(layout, "-") {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 1 {
			return false
		}
	}
	return true
}
