package domain

// User is the authenticated identity as returned by /auth/login and
// /auth/register. It is also the record persisted under the "user" key.
type User struct {
	ID            string `json:"_id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WalletBalance Amount `json:"walletBalance"`
	Token         string `json:"token,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Wallet struct {
	WalletBalance Amount `json:"walletBalance"`
}
