package domain

// AuthSession is the token set returned by authenticate and refresh. It is
// never persisted.
type AuthSession struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`
	Scope            string `json:"scope,omitempty"`
	SessionState     string `json:"session_state,omitempty"`
}
