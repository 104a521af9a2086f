package content

import (
	"context"
	"testing"

	"github.com/jvtipil/unfolde/models"
)

type fakeFinder map[string]models.Media

func (f fakeFinder) FindByIDs(_ context.Context, _ string, ids []string) ([]models.Media, error) {
	var out []models.Media
	for _, id := range ids {
		if m, ok := f[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestRenderText(t *testing.T) {
	nodes := RenderText("# Title\n\nHello world\n## Sub\n### Deep\n#### Too deep")
	want := []TextNode{
		{Kind: "h1", Text: "Title", Level: 1},
		{Kind: "br"},
		{Kind: "p", Text: "Hello world"},
		{Kind: "h2", Text: "Sub", Level: 2},
		{Kind: "h3", Text: "Deep", Level: 3},
		{Kind: "h3", Text: "# Too deep", Level: 3},
	}
	if len(nodes) != len(want) {
		t.Fatalf("node count = %d, want %d", len(nodes), len(want))
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("node %d = %+v, want %+v", i, nodes[i], want[i])
		}
	}
}

func TestRenderTextHeadingWithoutSpace(t *testing.T) {
	nodes := RenderText("#Tight")
	if len(nodes) != 1 || nodes[0].Kind != "h1" || nodes[0].Text != "Tight" {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestRenderTextTemplate(t *testing.T) {
	page := &models.Page{
		TenantID: "t1",
		Title:    "About",
		Template: models.TemplateTextCentered,
		Content:  "# Hi\nBody",
	}
	got, err := Render(context.Background(), fakeFinder{}, page)
	if err != nil {
		t.Fatal(err)
	}
	if got.Template != models.TemplateTextCentered {
		t.Errorf("template = %q", got.Template)
	}
	if len(got.Nodes) != 2 || got.Nodes[0].Kind != "h1" {
		t.Errorf("nodes = %+v", got.Nodes)
	}
}

func TestRenderColumns(t *testing.T) {
	page := &models.Page{
		TenantID: "t1",
		Template: models.TemplateTextColumns,
		Columns:  2,
		Content:  `{"layout":"1-2","blocks":[{"type":"text","content":"hi"},{"type":"media","mediaId":"m1"},{"type":"media","mediaId":"gone"}]}`,
	}
	finder := fakeFinder{"m1": {ID: "m1", Path: "/media/m1.jpg"}}

	got, err := Render(context.Background(), finder, page)
	if err != nil {
		t.Fatal(err)
	}
	if got.GridCols != "1fr 2fr" {
		t.Errorf("grid cols = %q, want 1fr 2fr", got.GridCols)
	}
	if len(got.Blocks) != 3 {
		t.Fatalf("blocks length = %d, want 3", len(got.Blocks))
	}
	if _, ok := got.Media["m1"]; !ok {
		t.Error("resolved media missing m1")
	}
	// a block whose media record vanished still renders, just without media
	if _, ok := got.Media["gone"]; ok {
		t.Error("deleted media should not resolve")
	}
}

func TestRenderColumnsFallsBackToColumnCount(t *testing.T) {
	page := &models.Page{
		TenantID: "t1",
		Template: models.TemplateTextColumns,
		Columns:  3,
		Content:  "broken",
	}
	got, err := Render(context.Background(), fakeFinder{}, page)
	if err != nil {
		t.Fatal(err)
	}
	if got.Layout != "1-1-1" {
		t.Errorf("layout = %q, want 1-1-1", got.Layout)
	}
	if len(got.Blocks) != 3 {
		t.Errorf("blocks length = %d, want 3", len(got.Blocks))
	}
}

func TestRenderMasonryPreservesOrder(t *testing.T) {
	page := &models.Page{
		TenantID: "t1",
		Template: models.TemplateMasonry,
		Content:  `{"mediaIds":["b","gone","a"],"gap":10}`,
	}
	finder := fakeFinder{
		"a": {ID: "a", Path: "/media/a.jpg"},
		"b": {ID: "b", Path: "/media/b.jpg"},
	}

	got, err := Render(context.Background(), finder, page)
	if err != nil {
		t.Fatal(err)
	}
	if got.Gap != 10 {
		t.Errorf("gap = %d, want 10", got.Gap)
	}
	if len(got.Items) != 2 || got.Items[0].ID != "b" || got.Items[1].ID != "a" {
		t.Errorf("items out of order: %+v", got.Items)
	}
}
