package fivepaisa

import "fmt"

// Credentials holds the application and user secrets issued by 5paisa.
// The TOTP code itself is not part of the credentials: it is generated by
// the operator's authenticator and passed to Login per session.
type Credentials struct {
	AppName       string
	AppSource     int
	UserID        string
	Password      string
	UserKey       string
	EncryptionKey string
	ClientCode    string
	PIN           string
}

// APIError is a rejection reported by the 5paisa API itself, as opposed to
// a transport failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fivepaisa api error %d: %s", e.Status, e.Message)
}

// loginRequest is the TOTP session request envelope. 5paisa wraps every
// payload in a head/body pair keyed by the vendor user key.
type loginRequest struct {
	Head loginRequestHead `json:"head"`
	Body loginRequestBody `json:"body"`
}

type loginRequestHead struct {
	Key string `json:"Key"`
}

type loginRequestBody struct {
	ClientCode string `json:"Email_ID"`
	TOTP       string `json:"TOTP"`
	PIN        string `json:"PIN"`
}

type loginResponse struct {
	Body struct {
		Status      int    `json:"Status"`
		Message     string `json:"Message"`
		AccessToken string `json:"AccessToken"`
	} `json:"body"`
}

// historyResponse is the historical candles envelope. Each candle row is a
// positional array: [datetime, open, high, low, close, volume].
type historyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Candles [][]any `json:"candles"`
	} `json:"data"`
}
