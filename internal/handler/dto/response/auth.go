package response

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewLoginResponse(accessToken string) *LoginResponse {
	return &LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
}
