package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/markdave123-py/uniconnect/internal/core"
)

// Msg is the body of every error and acknowledgement response.
type Msg struct {
	Msg string `json:"msg"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("httpx: encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"Server Error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Msg{Msg: msg})
}

// Error writes client-facing errors as-is and logs anything else behind a generic 500.
func Error(w http.ResponseWriter, scope string, err error) {
	var ce *core.Error
	if errors.As(err, &ce) {
		Message(w, ce.Status(), ce.Msg)
		return
	}
	log.Printf("%s: %v", scope, err)
	Message(w, http.StatusInternalServerError, "Server Error")
}

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return core.BadRequest("Invalid request body")
	}
	return nil
}
