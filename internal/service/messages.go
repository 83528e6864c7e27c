package service

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	MessageListingCreated = "Business listing created successfully!"
	MessageSignInRequired = "Please sign in to list your business."
	MessageListingFailed  = "Failed to create business listing. Please try again."
)

// UserMessage picks the text shown to the user for a failed submission:
// the message reported by the backend when there is one, else fallback
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return "Please check these fields: " + strings.Join(verr.Fields(), ", ")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		return apiErr.ErrorMessage()
	}

	var msgErr interface{ BackendMessage() string }
	if errors.As(err, &msgErr) && msgErr.BackendMessage() != "" {
		return msgErr.BackendMessage()
	}

	return fallback
}
