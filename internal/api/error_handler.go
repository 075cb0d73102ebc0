package api

import (
	"net/http"

	"github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/logger"
)

// handleError centralizes error handling for HTTP responses. Bodies are
// plain text; 500s carry the underlying error text.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	http.Error(w, appErr.Message, appErr.Status)
}
