package model

// Role is the type of a role.
type Role string

const (
	// RoleAdmin is the ADMIN role, gating the management surface.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the USER role.
	RoleUser Role = "USER"
)

func (e Role) String() string {
	switch e {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	}
	return "USER"
}

// ReadingHistoryItem is one entry of a user's reading history.
// A book appears at most once, positioned at its latest read time.
type ReadingHistoryItem struct {
	BookID string `json:"book_id"`
	ReadAt int64  `json:"read_at"`
}

type User struct {
	ID string `json:"id"`

	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	Favorites      []string             `json:"favorites"`
	ReadingHistory []ReadingHistoryItem `json:"reading_history"`
	// CachedBookIDs is derived from content cache membership, never stored.
	CachedBookIDs []string `json:"cached_book_ids"`

	CreatedTs int64 `json:"created_ts"`
}

// HasFavorite reports whether bookID is in the user's favorites.
func (u *User) HasFavorite(bookID string) bool {
	for _, id := range u.Favorites {
		if id == bookID {
			return true
		}
	}
	return false
}

type FindUser struct {
	ID    *string `json:"id"`
	Email *string `json:"email"`
	Role  *Role   `json:"role"`

	// The maximum number of users to return.
	Limit *int
}

type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserSigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
