package providers

import (
	"github.com/samber/do/v2"

	"github.com/clockworkapp/clockwork-server/internal/auth"
	"github.com/clockworkapp/clockwork-server/internal/logger"
	"github.com/clockworkapp/clockwork-server/internal/service"
	"github.com/clockworkapp/clockwork-server/internal/validation"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, v, log.Logger), nil
}

// ProvideTimerService provides the active timer service.
func ProvideTimerService(i do.Injector) (*service.TimerService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTimerService(storeHandle.Store, v, log.Logger), nil
}

// ProvideRecordService provides the record CRUD service.
func ProvideRecordService(i do.Injector) (*service.RecordService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecordService(storeHandle.Store, v, log.Logger), nil
}

// ProvideStatsService provides the statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}
