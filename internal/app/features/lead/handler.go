// internal/app/features/lead/handler.go
package lead

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
)

// Handler owns the lead dashboard and project management screens.
// Admins share these screens for moderation; the project policy decides
// per project who may act.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Projects *projectstore.Store
	Parts    *participationstore.Store
	Users    *userstore.Store
}

// NewHandler constructs a Handler bound to the given Mongo database and
// logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Projects: projectstore.New(db),
		Parts:    participationstore.New(db),
		Users:    userstore.New(db),
	}
}
