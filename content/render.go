package content

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/models"
)

// MediaFinder resolves media IDs to records. Satisfied by the gorm-backed
// store; tests use an in-memory map.
type MediaFinder interface {
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]models.Media, error)
}

// GormMediaFinder looks media up in the database.
type GormMediaFinder struct {
	DB *gorm.DB
}

func (f GormMediaFinder) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]models.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var media []models.Media
	err := f.DB.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&media).Error
	return media, err
}

// TextNode is one rendered line of a plain-text template.
type TextNode struct {
	Kind  string `json:"kind"` // h1, h2, h3, br, p
	Text  string `json:"text,omitempty"`
	Level int    `json:"level,omitempty"`
}

// RenderedPage is the display-ready form of a page, shaped per template.
type RenderedPage struct {
	Template  string `json:"template"`
	ShowTitle bool   `json:"showTitle"`
	Title     string `json:"title"`

	// text-centered / text-wide
	Nodes []TextNode `json:"nodes,omitempty"`

	// text-columns
	Layout   string                  `json:"layout,omitempty"`
	GridCols string                  `json:"gridCols,omitempty"`
	Blocks   []ColumnBlock           `json:"blocks,omitempty"`
	Media    map[string]models.Media `json:"media,omitempty"`

	// masonry
	Gap   int            `json:"gap,omitempty"`
	Items []models.Media `json:"items,omitempty"`
}

// Render prepares a stored page for display, resolving referenced media.
// It never fails on malformed content; only media lookups can error.
func Render(ctx context.Context, finder MediaFinder, page *models.Page) (*RenderedPage, error) {
	out := &RenderedPage{
		Template:  page.Template,
		ShowTitle: page.ShowTitle,
		Title:     page.Title,
	}

	switch page.Template {
	case models.TemplateTextColumns:
		cols := ParseColumns(page.Content, equalLayout(page.Columns))
		out.Layout = cols.Layout
		out.GridCols = LayoutToGridCols(cols.Layout)
		out.Blocks = cols.Blocks

		ids := make([]string, 0)
		for _, b := range cols.Blocks {
			if b.Type == BlockMedia && b.MediaID != "" {
				ids = append(ids, b.MediaID)
			}
		}
		media, err := finder.FindByIDs(ctx, page.TenantID, ids)
		if err != nil {
			return nil, err
		}
		out.Media = make(map[string]models.Media, len(media))
		for _, m := range media {
			out.Media[m.ID] = m
		}

	case models.TemplateMasonry:
		mas := ParseMasonry(page.Content)
		out.Gap = mas.Gap
		media, err := finder.FindByIDs(ctx, page.TenantID, mas.MediaIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.Media, len(media))
		for _, m := range media {
			byID[m.ID] = m
		}
		// keep the author's ordering, drop records that no longer exist
		out.Items = make([]models.Media, 0, len(mas.MediaIDs))
		for _, id := range mas.MediaIDs {
			if m, ok := byID[id]; ok {
				out.Items = append(out.Items, m)
			}
		}

	default:
		// text-centered and text-wide share the line-based renderer
		out.Nodes = RenderText(page.Content)
	}

	return out, nil
}

// RenderText applies the line-based text grammar: up to three leading '#'
// characters make a heading, blank lines become breaks, everything else is a
// paragraph. No inline formatting.
func RenderText(text string) []TextNode {
	lines := strings.Split(text, "\n")
	nodes := make([]TextNode, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "#"):
			level := 0
			for level < len(line) && line[level] == '#' && level < 3 {
				level++
			}
			body := strings.TrimPrefix(line[level:], " ")
			nodes = append(nodes, TextNode{Kind: "h" + string(rune('0'+level)), Text: body, Level: level})
		case strings.TrimSpace(line) == "":
			nodes = append(nodes, TextNode{Kind: "br"})
		default:
			nodes = append(nodes, TextNode{Kind: "p", Text: line})
		}
	}
	return nodes
}
