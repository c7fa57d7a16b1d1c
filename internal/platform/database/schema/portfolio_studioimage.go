package schema

// PortfolioStudioImageTable represents the 'portfolio.studioimage' table
type PortfolioStudioImageTable struct {
	Table        string
	ID           string
	ArtistID     string
	ImageKey     string
	ContentType  string
	Caption      string
	AltText      string
	Category     string
	Width        string
	Height       string
	FileSize     string
	DisplayOrder string
	CreatedAt    string
	UpdatedAt    string
}

// PortfolioStudioImage is the schema definition for portfolio.studioimage
var PortfolioStudioImage = PortfolioStudioImageTable{
	Table:        "portfolio.studioimage",
	ID:           "id",
	ArtistID:     "artistid",
	ImageKey:     "imagekey",
	ContentType:  "contenttype",
	Caption:      "caption",
	AltText:      "alttext",
	Category:     "category",
	Width:        "width",
	Height:       "height",
	FileSize:     "filesize",
	DisplayOrder: "displayorder",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t PortfolioStudioImageTable) Columns() []string {
	return []string{
		t.ID, t.ArtistID, t.ImageKey, t.ContentType, t.Caption, t.AltText, t.Category,
		t.Width, t.Height, t.FileSize, t.DisplayOrder, t.CreatedAt, t.UpdatedAt,
	}
}
