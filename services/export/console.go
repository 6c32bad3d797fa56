package exportsvc

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/attendance"
	"github.com/ieee-its/nightslip/core/user"
)

// consoleService dumps the snapshot to stdout instead of pushing it anywhere.
// Handy for local development without a collector.
type consoleService struct {
	users user.Repository
	rows  attendance.Repository
}

var _ core.ExportService = (*consoleService)(nil)

func NewConsoleService(users user.Repository, rows attendance.Repository) core.ExportService {
	return &consoleService{users: users, rows: rows}
}

func (svc *consoleService) Export() {
	go func() {
		ctx := context.Background()
		dates, err := svc.rows.QueryAllDates(ctx)
		if err != nil {
			log.Printf("export: %v", err)
			return
		}
		users, err := svc.users.QueryAllUsers(ctx)
		if err != nil {
			log.Printf("export: %v", err)
			return
		}
		rows, err := svc.rows.QueryAllRows(ctx)
		if err != nil {
			log.Printf("export: %v", err)
			return
		}
		b, _ := json.MarshalIndent(attendance.Snapshot{Dates: dates, Users: users, Attendance: rows}, "", "  ")
		log.Printf("export snapshot:\n%s", b)
	}()
}
