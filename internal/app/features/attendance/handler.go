// internal/app/features/attendance/handler.go
package attendance

import (
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/rollbook/internal/app/features/errors"
	"github.com/dalemusser/rollbook/internal/app/store/records"
	"github.com/dalemusser/rollbook/internal/app/store/subjects"
	"github.com/dalemusser/rollbook/internal/app/store/summaries"
)

// Handler serves the attendance endpoints: submission ingest, summary
// reads with projected percentages, record listing, and the summary
// rebuild.
type Handler struct {
	Records   *records.Store
	Summaries *summaries.Store
	Subjects  *subjects.Store
	ErrLog    *uierrors.ErrorLogger

	validate *validator.Validate
	notes    *bluemonday.Policy
}

// NewHandler constructs an attendance Handler over the given database.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Records:   records.New(db),
		Summaries: summaries.New(db, logger),
		Subjects:  subjects.New(db),
		ErrLog:    errLog,
		validate:  validator.New(),
		notes:     bluemonday.StrictPolicy(),
	}
}
