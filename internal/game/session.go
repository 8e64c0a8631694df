package game

const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Playfield is the authoritative board size for one session. It is mutated
// only by the session's room while handling a resize firing.
type Playfield struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PlayfieldStyle holds the cosmetic board settings a player configures.
// The server round-trips these to peers and never interprets them.
type PlayfieldStyle struct {
	BGColor     string            `json:"bg_color"`
	BlockColors map[string]string `json:"block_colors"`
	ShowGhost   bool              `json:"show_ghost"`
}

type Profile struct {
	Username    string         `json:"username"`
	AvatarURL   string         `json:"avatar_url"`
	Playfield   PlayfieldStyle `json:"playfield"`
	FontFamily  string         `json:"font_family"`
	FontSize    int            `json:"font_size"`
	AccentColor string         `json:"accent_color"`
}

// Session is one connected player's live state. Before a join it is owned
// by its connection goroutine; after a join every mutation happens on the
// room loop.
type Session struct {
	ID            string
	Profile       Profile
	Playfield     Playfield
	Score         int
	ComboCount    int
	BackToBack    bool
	LastClearType ClearType
	Rank          int
}

func NewSession(id string) *Session {
	name := "player_" + id
	if len(id) > 4 {
		name = "player_" + id[:4]
	}
	return &Session{
		ID: id,
		Profile: Profile{
			Username:  name,
			AvatarURL: "",
			Playfield: PlayfieldStyle{
				BGColor: "#071022",
				BlockColors: map[string]string{
					"I": "#00f0f0", "O": "#f0f000", "T": "#a000f0",
					"S": "#00f000", "Z": "#f00000", "J": "#0000f0", "L": "#f0a000",
				},
				ShowGhost: true,
			},
			FontFamily:  "inter, system-ui, sans-serif",
			FontSize:    14,
			AccentColor: "#3dd3ff",
		},
		Playfield: Playfield{Width: DefaultWidth, Height: DefaultHeight},
	}
}

// ProfileUpdate is a partial profile. Nil fields keep the current value;
// a non-nil BlockColors map replaces the whole mapping.
type ProfileUpdate struct {
	Username    *string           `json:"username,omitempty"`
	AvatarURL   *string           `json:"avatar_url,omitempty"`
	BGColor     *string           `json:"bg_color,omitempty"`
	BlockColors map[string]string `json:"block_colors,omitempty"`
	ShowGhost   *bool             `json:"show_ghost,omitempty"`
	FontFamily  *string           `json:"font_family,omitempty"`
	FontSize    *int              `json:"font_size,omitempty"`
	AccentColor *string           `json:"accent_color,omitempty"`
}

// Apply merges u into the profile. Board width/height are not part of the
// profile and cannot be touched from here.
func (p *Profile) Apply(u ProfileUpdate) {
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	if u.BGColor != nil {
		p.Playfield.BGColor = *u.BGColor
	}
	if u.BlockColors != nil {
		p.Playfield.BlockColors = u.BlockColors
	}
	if u.ShowGhost != nil {
		p.Playfield.ShowGhost = *u.ShowGhost
	}
	if u.FontFamily != nil {
		p.FontFamily = *u.FontFamily
	}
	if u.FontSize != nil {
		p.FontSize = *u.FontSize
	}
	if u.AccentColor != nil {
		p.AccentColor = *u.AccentColor
	}
}
