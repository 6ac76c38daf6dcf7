package album

// ReleaseDateLayout is the DD-MM-YYYY form release dates are stored in.
const ReleaseDateLayout = "02-01-2006"

// Album is one catalog entry, keyed by ID and Artist.
type Album struct {
	ID          int      `json:"id"                     dynamodbav:"id"                     validate:"required,gt=0"`
	Artist      string   `json:"artist"                 dynamodbav:"artist"                 validate:"required"`
	Title       string   `json:"title"                  dynamodbav:"title"                  validate:"required"`
	Genres      []string `json:"genres,omitempty"       dynamodbav:"genres,omitempty"       validate:"omitempty,dive,required"`
	ReleaseDate string   `json:"release_date,omitempty" dynamodbav:"release_date,omitempty" validate:"omitempty,datetime=02-01-2006"`
	Review      string   `json:"review,omitempty"       dynamodbav:"review,omitempty"`
	// UserID is the subject of the caller that created the album.
	UserID string `json:"userId,omitempty" dynamodbav:"userId,omitempty"`
}

// Update holds the attributes an owner may change.
type Update struct {
	Title       string   `json:"title"                  validate:"required"`
	Genres      []string `json:"genres,omitempty"       validate:"omitempty,dive,required"`
	ReleaseDate string   `json:"release_date,omitempty" validate:"omitempty,datetime=02-01-2006"`
	Review      string   `json:"review,omitempty"`
}

// Attributes is the update as stored, for echoing back to the caller.
func (u Update) Attributes() map[string]any {
	return map[string]any{
		"title":        u.Title,
		"genres":       u.Genres,
		"release_date": u.ReleaseDate,
		"review":       u.Review,
	}
}

// Mutable returns the attributes an update may touch.
func (a *Album) Mutable() Update {
	return Update{
		Title:       a.Title,
		Genres:      a.Genres,
		ReleaseDate: a.ReleaseDate,
		Review:      a.Review,
	}
}

func (a *Album) Apply(u Update) {
	a.Title = u.Title
	a.Genres = u.Genres
	a.ReleaseDate = u.ReleaseDate
	a.Review = u.Review
}

func (a *Album) OwnedBy(sub string) bool {
	return a.UserID != "" && a.UserID == sub
}
