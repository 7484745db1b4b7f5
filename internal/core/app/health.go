package app

import (
	"context"
	"fmt"
	"time"

	"codegrader/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.codeParser != nil {
		status.Components["parser"] = "ok"
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if last := s.app.LastResult(); last != nil {
		status.Components["last_run"] = fmt.Sprintf("ok (%d files, %d types, %d findings)",
			len(last.Files), last.Types.Len(), len(last.Findings))
		if last.Conflicts != nil {
			status.Components["type_map"] = "duplicate types"
		}
	} else {
		status.Components["last_run"] = "pending"
	}

	status.Components["memory"] = fmt.Sprintf("%d MB heap", util.HeapAllocMB())

	if err := ctx.Err(); err != nil {
		status.Status = "degraded"
		status.Components["context"] = err.Error()
	}
	return status
}
