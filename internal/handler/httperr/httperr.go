package httperr

// Response is the error body shape shared by the error-handling middleware.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func New(status int, msg string) Response {
	resp := Response{Status: status}
	resp.Error.Message = msg
	return resp
}
