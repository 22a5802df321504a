package reconcile

import (
	"hype_signal/internal/modules/hyperliquid"
	hl "hype_signal/internal/modules/hyperliquid/service"
	positions "hype_signal/internal/modules/positions/service"
	"hype_signal/internal/modules/reconcile/service"
	"hype_signal/internal/notify"

	"go.uber.org/fx"
)

func NewReconciler(store positions.Store, info *hl.InfoClient, mids *hl.MidsSource, addr hyperliquid.AccountAddress) *service.Reconciler {
	return service.NewReconciler(store, info, mids, string(addr))
}

func Module() fx.Option {
	return fx.Module("reconcile",
		fx.Provide(
			NewReconciler,
			func(r *service.Reconciler) notify.PositionsReporter { return r },
		),
	)
}
