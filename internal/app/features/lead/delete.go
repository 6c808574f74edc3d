// internal/app/features/lead/delete.go
package lead

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/txn"
)

// HandleDelete handles POST /lead/projects/{id}/delete. Deleting a
// project removes its entire enrollment ledger with it; counters go away
// with the document, so no decrements are involved.
//
// On replica sets both deletes share a transaction. Standalone servers
// run them in order, ledger rows first, so an interrupted delete can
// leave an empty project but never orphaned enrollments.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := h.loadManaged(w, r, ctx)
	if p == nil {
		return
	}

	var removed int64
	apply := func(c context.Context) error {
		n, err := h.Parts.DeleteByProject(c, p.ID)
		if err != nil {
			return err
		}
		removed = n
		return h.Projects.Delete(c, p.ID)
	}

	err := txn.WithTransaction(ctx, h.DB.Client(), func(sc mongo.SessionContext) error {
		return apply(sc)
	})
	if err != nil && txn.IsNotSupported(err) {
		h.Log.Warn("transactions unavailable; deleting project with ordered writes",
			zap.String("project_id", p.ID.Hex()))
		err = apply(ctx)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: delete project failed", err, "", "/lead")
		return
	}

	h.Log.Info("project deleted",
		zap.String("project_id", p.ID.Hex()),
		zap.Int64("enrollments_removed", removed))

	http.Redirect(w, r, "/lead?notice=Project+deleted", http.StatusSeeOther)
}
