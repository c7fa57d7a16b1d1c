package schema

// PortfolioArtistTable represents the 'portfolio.artist' table
type PortfolioArtistTable struct {
	Table             string
	ID                string
	FullName          string
	StudioIntroText   string
	StudioHeroImageID string
	CreatedAt         string
	UpdatedAt         string
}

// PortfolioArtist is the schema definition for portfolio.artist
var PortfolioArtist = PortfolioArtistTable{
	Table:             "portfolio.artist",
	ID:                "id",
	FullName:          "fullname",
	StudioIntroText:   "studiointrotext",
	StudioHeroImageID: "studioheroimageid",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

func (t PortfolioArtistTable) Columns() []string {
	return []string{t.ID, t.FullName, t.StudioIntroText, t.StudioHeroImageID, t.CreatedAt, t.UpdatedAt}
}
