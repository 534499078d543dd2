package api

import "github.com/clockworkapp/clockwork-server/internal/service"

// Services bundles the application services the handlers depend on.
type Services struct {
	Auth    *service.AuthService
	Timer   *service.TimerService
	Records *service.RecordService
	Stats   *service.StatsService
}
