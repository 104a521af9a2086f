package content

import (
	"testing"
)

func TestParseColumnsWrapper(t *testing.T) {
	raw := `{"layout":"1-2","blocks":[{"type":"text","content":"hi"},{"type":"media","mediaId":"m1"}]}`
	got := ParseColumns(raw, "1-1-1")
	if got.Layout != "1-2" {
		t.Errorf("layout = %q, want 1-2", got.Layout)
	}
	if len(got.Blocks) != 2 {
		t.Fatalf("blocks length = %d, want 2", len(got.Blocks))
	}
	if got.Blocks[0].Type != BlockText || got.Blocks[0].Content != "hi" {
		t.Errorf("block 0 = %+v", got.Blocks[0])
	}
	if got.Blocks[1].Type != BlockMedia || got.Blocks[1].MediaID != "m1" {
		t.Errorf("block 1 = %+v", got.Blocks[1])
	}
}

func TestParseColumnsWrapperWithoutLayout(t *testing.T) {
	raw := `{"blocks":[{"type":"text","content":"a"}]}`
	got := ParseColumns(raw, "2-1")
	if got.Layout != "2-1" {
		t.Errorf("layout = %q, want fallback 2-1", got.Layout)
	}
}

func TestParseColumnsLegacyArray(t *testing.T) {
	raw := `[{"type":"text","content":"a"},{"type":"text","content":"b"},{"type":"text","content":"c"}]`
	got := ParseColumns(raw, "1-2")
	if got.Layout != "1-1-1" {
		t.Errorf("layout = %q, want 1-1-1", got.Layout)
	}
	if len(got.Blocks) != 3 || got.Blocks[1].Content != "b" {
		t.Errorf("blocks = %+v", got.Blocks)
	}
}

func TestParseColumnsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `"just a string"`, "42"} {
		got := ParseColumns(raw, "1-1")
		if got.Layout != "1-1" {
			t.Errorf("ParseColumns(%q) layout = %q, want fallback", raw, got.Layout)
		}
		if len(got.Blocks) != 2 {
			t.Fatalf("ParseColumns(%q) blocks length = %d, want 2", raw, len(got.Blocks))
		}
		for _, b := range got.Blocks {
			if b.Type != BlockText || b.Content != "" {
				t.Errorf("ParseColumns(%q) block = %+v, want empty text", raw, b)
			}
		}
	}
}

func TestColumnsRoundTrip(t *testing.T) {
	in := ColumnsContent{
		Layout: "1-2",
		Blocks: []ColumnBlock{
			{Type: BlockText, Content: "hi"},
			{Type: BlockMedia, MediaID: "m1"},
		},
	}
	got := ParseColumns(SerializeColumns(in), "1-1-1")
	if got.Layout != in.Layout {
		t.Errorf("layout = %q, want %q", got.Layout, in.Layout)
	}
	if len(got.Blocks) != len(in.Blocks) {
		t.Fatalf("blocks length = %d, want %d", len(got.Blocks), len(in.Blocks))
	}
	for i := range in.Blocks {
		if got.Blocks[i] != in.Blocks[i] {
			t.Errorf("block %d = %+v, want %+v", i, got.Blocks[i], in.Blocks[i])
		}
	}
}

func TestParseMasonry(t *testing.T) {
	got := ParseMasonry(`{"mediaIds":["m1","m2"],"gap":16}`)
	if len(got.MediaIDs) != 2 || got.MediaIDs[0] != "m1" {
		t.Errorf("media ids = %v", got.MediaIDs)
	}
	if got.Gap != 16 {
		t.Errorf("gap = %d, want 16", got.Gap)
	}
}

func TestParseMasonryDefaults(t *testing.T) {
	for _, raw := range []string{"", "not json", "[]", `{"gap":"wide"}`, `{"mediaIds":"m1"}`} {
		got := ParseMasonry(raw)
		if got.MediaIDs == nil || len(got.MediaIDs) != 0 {
			t.Errorf("ParseMasonry(%q) media ids = %v, want empty", raw, got.MediaIDs)
		}
		if got.Gap != 8 {
			t.Errorf("ParseMasonry(%q) gap = %d, want 8", raw, got.Gap)
		}
	}
}

func TestMasonryRoundTrip(t *testing.T) {
	in := MasonryContent{MediaIDs: []string{"a", "b", "c"}, Gap: 12}
	got := ParseMasonry(SerializeMasonry(in))
	if got.Gap != 12 || len(got.MediaIDs) != 3 || got.MediaIDs[2] != "c" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLayoutToGridCols(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1-2-1", "1fr 2fr 1fr"},
		{"1", "1fr"},
		{"2-3", "2fr 3fr"},
	}
	for _, c := range cases {
		if got := LayoutToGridCols(c.in); got != c.want {
			t.Errorf("LayoutToGridCols(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLayoutColCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"1-1", 2},
		{"1-2-1", 3},
		{"", 1},
	}
	for _, c := range cases {
		if got := LayoutColCount(c.in); got != c.want {
			t.Errorf("LayoutColCount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSyncBlocks(t *testing.T) {
	blocks := []ColumnBlock{
		{Type: BlockText, Content: "a"},
		{Type: BlockMedia, MediaID: "m1"},
		{Type: BlockText, Content: "c"},
	}

	truncated := SyncBlocks(blocks, 2)
	if len(truncated) != 2 || truncated[1].MediaID != "m1" {
		t.Errorf("truncate = %+v", truncated)
	}

	grown := SyncBlocks(blocks[:1], 3)
	if len(grown) != 3 {
		t.Fatalf("grow length = %d, want 3", len(grown))
	}
	if grown[0].Content != "a" {
		t.Errorf("grow kept block = %+v", grown[0])
	}
	if grown[2].Type != BlockText || grown[2].Content != "" {
		t.Errorf("appended block = %+v, want empty text", grown[2])
	}
}

func TestValidLayout(t *testing.T) {
	for _, l := range []string{"1", "1-1", "1-2-1", "3-1-3-1"} {
		if !ValidLayout(l) {
			t.Errorf("ValidLayout(%q) = false", l)
		}
	}
	for _, l := range []string{"", "0-1", "-1", "1-", "a-b", "1--2"} {
		if ValidLayout(l) {
			t.Errorf("ValidLayout(%q) = true", l)
		}
	}
}
