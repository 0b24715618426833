package store

// AppUser is the signed-in identity plus its wishlist of room ids.
type AppUser struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Wishlist    []string `json:"wishlist"`
}

func (u AppUser) clone() *AppUser {
	u.Wishlist = append([]string(nil), u.Wishlist...)
	return &u
}

type AuthState struct {
	user          *AppUser
	Authenticated bool
	Loading       bool
	Error         string
}

// SetUser replaces the current user. A non-nil user marks the state
// authenticated and clears the last error; nil signs out.
func (s AuthState) SetUser(user *AppUser) AuthState {
	if user == nil {
		s.user = nil
		s.Authenticated = false
		return s
	}
	s.user = user.clone()
	s.Authenticated = true
	s.Error = ""
	return s
}

func (s AuthState) Logout() AuthState {
	s.user = nil
	s.Authenticated = false
	s.Error = ""
	return s
}

// ToggleWishlist flips roomID's membership. Without a user it does nothing.
func (s AuthState) ToggleWishlist(roomID string) AuthState {
	if s.user == nil {
		return s
	}
	u := s.user.clone()
	idx := -1
	for i, id := range u.Wishlist {
		if id == roomID {
			idx = i
			break
		}
	}
	if idx < 0 {
		u.Wishlist = append(u.Wishlist, roomID)
	} else {
		u.Wishlist = append(u.Wishlist[:idx], u.Wishlist[idx+1:]...)
	}
	s.user = u
	return s
}

func (s AuthState) SetWishlist(roomIDs []string) AuthState {
	if s.user == nil {
		return s
	}
	u := s.user.clone()
	u.Wishlist = append([]string(nil), roomIDs...)
	s.user = u
	return s
}

func (s AuthState) ClearWishlist() AuthState {
	return s.SetWishlist(nil)
}

func (s AuthState) SetLoading(loading bool) AuthState {
	s.Loading = loading
	return s
}

func (s AuthState) SetError(msg string) AuthState {
	s.Error = msg
	return s
}

func (s AuthState) User() *AppUser {
	if s.user == nil {
		return nil
	}
	return s.user.clone()
}

func (s AuthState) Wishlist() []string {
	if s.user == nil {
		return []string{}
	}
	return append([]string{}, s.user.Wishlist...)
}

func (s AuthState) IsInWishlist(roomID string) bool {
	if s.user == nil {
		return false
	}
	for _, id := range s.user.Wishlist {
		if id == roomID {
			return true
		}
	}
	return false
}
