// internal/app/features/admin/handler.go
package admin

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
)

// Handler owns the admin screens: the overview, user management, lead
// access requests, and report moderation.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users    *userstore.Store
	Projects *projectstore.Store
	Parts    *participationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		Projects: projectstore.New(db),
		Parts:    participationstore.New(db),
	}
}
