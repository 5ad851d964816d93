package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/galeria-midia/backend/api/middleware"
	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

// authedUserID pulls the authenticated user id out of the request context.
func authedUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
