package exportsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/attendance"
	"github.com/ieee-its/nightslip/core/user"
)

// webhookService ships a full dataset snapshot to an external collector after
// every successful write. Delivery is fire-and-forget: a failed push is
// logged and dropped, never retried, and never surfaces to the caller.
type webhookService struct {
	url    string
	client *http.Client
	users  user.Repository
	rows   attendance.Repository
	logger core.Logger
}

var _ core.ExportService = (*webhookService)(nil)

func NewWebhookService(conf *core.Config, users user.Repository, rows attendance.Repository, logger core.Logger) core.ExportService {
	return &webhookService{
		url:    conf.Export.URL,
		client: &http.Client{Timeout: conf.Export.Timeout},
		users:  users,
		rows:   rows,
		logger: logger,
	}
}

func (svc *webhookService) Export() {
	if svc.url == "" {
		return
	}
	go svc.push(uuid.New().String())
}

func (svc *webhookService) push(runID string) {
	snap, err := svc.snapshot()
	if err != nil {
		svc.logger.Error("export: assembling snapshot", errors.Wrap(err, runID))
		return
	}

	body, err := json.Marshal(snap)
	if err != nil {
		svc.logger.Error("export: encoding snapshot", errors.Wrap(err, runID))
		return
	}

	resp, err := svc.client.Post(svc.url, "application/json", bytes.NewReader(body))
	if err != nil {
		svc.logger.Error("export: pushing snapshot", errors.Wrap(err, runID))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		svc.logger.Error("export: collector rejected snapshot", map[string]interface{}{
			"run":    runID,
			"status": resp.StatusCode,
		})
		return
	}
	svc.logger.Debug("export: snapshot delivered", map[string]interface{}{"run": runID})
}

func (svc *webhookService) snapshot() (attendance.Snapshot, error) {
	ctx := context.Background()

	dates, err := svc.rows.QueryAllDates(ctx)
	if err != nil {
		return attendance.Snapshot{}, err
	}
	users, err := svc.users.QueryAllUsers(ctx)
	if err != nil {
		return attendance.Snapshot{}, err
	}
	rows, err := svc.rows.QueryAllRows(ctx)
	if err != nil {
		return attendance.Snapshot{}, err
	}
	return attendance.Snapshot{Dates: dates, Users: users, Attendance: rows}, nil
}
