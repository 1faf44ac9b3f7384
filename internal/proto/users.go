package proto

type PingRequest struct{}

func (m *PingRequest) MarshalWire() ([]byte, error) { return nil, nil }
func (m *PingRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type PingResponse struct {
	Status string
}

func (m *PingResponse) GetStatus() string {
	if m == nil {
		return ""
	}
	return m.Status
}

func (m *PingResponse) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Status), nil
}

func (m *PingResponse) UnmarshalWire(b []byte) error {
	*m = PingResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.Status = f.str()
		}
		return nil
	})
}

type RegisterUserRequest struct {
	Username string
	Salt     []byte
	Verifier []byte
}

func (m *RegisterUserRequest) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.Username)
	b = appendBytes(b, 2, m.Salt)
	return appendBytes(b, 3, m.Verifier), nil
}

func (m *RegisterUserRequest) UnmarshalWire(b []byte) error {
	*m = RegisterUserRequest{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.Username = f.str()
		case f.num == 2 && f.isBytes():
			m.Salt = f.blob()
		case f.num == 3 && f.isBytes():
			m.Verifier = f.blob()
		}
		return nil
	})
}

type RegisterUserResponse struct {
	UserId string
}

func (m *RegisterUserResponse) GetUserId() string {
	if m == nil {
		return ""
	}
	return m.UserId
}

func (m *RegisterUserResponse) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.UserId), nil
}

func (m *RegisterUserResponse) UnmarshalWire(b []byte) error {
	*m = RegisterUserResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.UserId = f.str()
		}
		return nil
	})
}

type GetSaltRequest struct {
	Username string
}

func (m *GetSaltRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Username), nil
}

func (m *GetSaltRequest) UnmarshalWire(b []byte) error {
	*m = GetSaltRequest{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.Username = f.str()
		}
		return nil
	})
}

type GetSaltResponse struct {
	Salt []byte
}

func (m *GetSaltResponse) GetSalt() []byte {
	if m == nil {
		return nil
	}
	return m.Salt
}

func (m *GetSaltResponse) MarshalWire() ([]byte, error) {
	return appendBytes(nil, 1, m.Salt), nil
}

func (m *GetSaltResponse) UnmarshalWire(b []byte) error {
	*m = GetSaltResponse{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.Salt = f.blob()
		}
		return nil
	})
}

type LoginRequest struct {
	Username          string
	VerifierCandidate []byte
}

func (m *LoginRequest) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.Username)
	return appendBytes(b, 2, m.VerifierCandidate), nil
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	*m = LoginRequest{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.Username = f.str()
		case f.num == 2 && f.isBytes():
			m.VerifierCandidate = f.blob()
		}
		return nil
	})
}

type LoginResponse struct {
	AccessToken  string
	RefreshToken string
	UserId       string
}

func (m *LoginResponse) GetAccessToken() string {
	if m == nil {
		return ""
	}
	return m.AccessToken
}

func (m *LoginResponse) GetRefreshToken() string {
	if m == nil {
		return ""
	}
	return m.RefreshToken
}

func (m *LoginResponse) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.AccessToken)
	b = appendString(b, 2, m.RefreshToken)
	return appendString(b, 3, m.UserId), nil
}

func (m *LoginResponse) UnmarshalWire(b []byte) error {
	*m = LoginResponse{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.AccessToken = f.str()
		case f.num == 2 && f.isBytes():
			m.RefreshToken = f.str()
		case f.num == 3 && f.isBytes():
			m.UserId = f.str()
		}
		return nil
	})
}

type RefreshTokenRequest struct {
	RefreshToken string
}

func (m *RefreshTokenRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.RefreshToken), nil
}

func (m *RefreshTokenRequest) UnmarshalWire(b []byte) error {
	*m = RefreshTokenRequest{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.isBytes() {
			m.RefreshToken = f.str()
		}
		return nil
	})
}

type RefreshTokenResponse struct {
	AccessToken  string
	RefreshToken string
}

func (m *RefreshTokenResponse) GetAccessToken() string {
	if m == nil {
		return ""
	}
	return m.AccessToken
}

func (m *RefreshTokenResponse) GetRefreshToken() string {
	if m == nil {
		return ""
	}
	return m.RefreshToken
}

func (m *RefreshTokenResponse) MarshalWire() ([]byte, error) {
	b := appendString(nil, 1, m.AccessToken)
	return appendString(b, 2, m.RefreshToken), nil
}

func (m *RefreshTokenResponse) UnmarshalWire(b []byte) error {
	*m = RefreshTokenResponse{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.isBytes():
			m.AccessToken = f.str()
		case f.num == 2 && f.isBytes():
			m.RefreshToken = f.str()
		}
		return nil
	})
}
