// internal/app/features/attendance/rebuild.go
package attendance

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/rollbook/internal/app/system/timeouts"
)

// Rebuild handles POST /attendance/rebuild.
//
// The raw record log is the source of truth; this refolds every summary
// from it, reconciling summaries left stale by a partial write or a
// retry-budget failure. Intended for administrative use; readers may see
// partially rebuilt summaries while it runs.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	total, err := h.Records.CountAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "record count failed", err, "Unable to rebuild summaries.")
		return
	}

	cur, err := h.Records.AllOrdered(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "record scan failed", err, "Unable to rebuild summaries.")
		return
	}

	n, err := h.Summaries.RebuildFrom(ctx, cur)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "summary rebuild failed", err, "Summary rebuild failed.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rebuildResponse{
		Success:      true,
		SummaryCount: n,
		RecordCount:  total,
	})
}
