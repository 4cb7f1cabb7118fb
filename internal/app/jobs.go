package app

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/internal/store"
	"github.com/boutiquehq/boutique/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const reconcileWorkers = 4

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 1m", func() {
		a.SchedReconcileOrdersTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedSystemMonitorTask samples host cpu/mem into the metrics store.
func (a *Application) SchedSystemMonitorTask() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		metrics.Gauge(metrics.MetricSystemCPU, percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		metrics.Gauge(metrics.MetricSystemMem, vm.UsedPercent)
	}
}

// SchedReconcileOrdersTask pushes orders that only the local log knows about
// to the remote API once it is reachable again. Each pushed order is marked
// synced; the remote side applies its own stock decrement on insert.
func (a *Application) SchedReconcileOrdersTask() {
	remote := a.dataStore.Remote()
	if remote == nil {
		return
	}

	pending, err := a.local.PendingOrders()
	if err != nil {
		zap.L().Error("reconcile: pending order scan failed", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	pool, err := ants.NewPool(reconcileWorkers)
	if err != nil {
		zap.L().Error("reconcile: worker pool init failed", zap.Error(err))
		return
	}
	defer pool.Release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var wg sync.WaitGroup
	for i := range pending {
		order := pending[i]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			a.pushOrder(ctx, remote, &order)
		}); err != nil {
			wg.Done()
			zap.L().Error("reconcile: submit failed", zap.Error(err))
		}
	}
	wg.Wait()
}

func (a *Application) pushOrder(ctx context.Context, remote *store.RemoteStore, o *domain.Order) {
	if err := remote.CreateOrder(ctx, o); err != nil {
		zap.L().Debug("reconcile: order push failed", zap.String("order", o.ID), zap.Error(err))
		return
	}
	if err := a.local.MarkOrderSynced(o.ID); err != nil {
		zap.L().Error("reconcile: mark synced failed", zap.String("order", o.ID), zap.Error(err))
		return
	}
	zap.L().Info("reconcile: order pushed to remote", zap.String("order", o.ID))
}
