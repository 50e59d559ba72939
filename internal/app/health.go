package app

import (
	"context"
	"time"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/router"
)

type healthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

func (healthResponse) Message() string {
	return "service is healthy"
}

func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Database: "up"}

	if err := a.dbConn.Ping(ctx); err != nil {
		return nil, goerror.NewServerMsg(err, "database is unavailable")
	}

	if a.cacheConn != nil {
		if err := a.cacheConn.Ping(ctx).Err(); err != nil {
			return nil, goerror.NewServerMsg(err, "redis is unavailable")
		}
		resp.Redis = "up"
	}

	return resp, nil
}
