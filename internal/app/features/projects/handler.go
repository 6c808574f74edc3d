// internal/app/features/projects/handler.go
package projects

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
)

// Handler owns the public project browsing pages and the join/leave
// actions.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Projects *projectstore.Store
	Parts    *participationstore.Store
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
	}
}
