package response

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// headers are already out, nothing useful to report
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes the standard error body: the status text plus a short
// message safe to show to clients.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Accepted acknowledges work that continues in the background.
func Accepted(w http.ResponseWriter, message string) {
	JSON(w, http.StatusAccepted, entity.AcceptedResponse{Status: "accepted", Message: message})
}

// Attachment writes a downloadable file.
func Attachment(w http.ResponseWriter, contentType, fileName string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Length", fmt.Sprint(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// Raw writes a non-JSON body such as SVG or CSS.
func Raw(w http.ResponseWriter, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
