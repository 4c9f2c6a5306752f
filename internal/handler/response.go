package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationXMsgpack is the content type clients send in Accept to get
// msgpack instead of JSON.
const MIMEApplicationXMsgpack = "application/x-msgpack"

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status" msgpack:"status"`
	Message string `json:"message,omitempty" msgpack:"message,omitempty"`
	Data    any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Respond is Success with content negotiation: msgpack when the client asks
// for it, JSON otherwise.
func Respond(c echo.Context, status int, message string, data any) error {
	if !wantsMsgpack(c.Request()) {
		return Success(c, status, message, data)
	}
	if status == 0 {
		status = http.StatusOK
	}
	body, err := msgpack.Marshal(APIResponse{Status: "success", Message: message, Data: data})
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to encode response")
	}
	return c.Blob(status, MIMEApplicationXMsgpack, body)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

func wantsMsgpack(req *http.Request) bool {
	for _, part := range strings.Split(req.Header.Get(echo.HeaderAccept), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		switch strings.ToLower(strings.TrimSpace(mediaType)) {
		case MIMEApplicationXMsgpack, echo.MIMEApplicationMsgpack:
			return true
		}
	}
	return false
}
