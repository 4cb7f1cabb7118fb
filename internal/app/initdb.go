package app

import (
	"go.uber.org/zap"

	"github.com/boutiquehq/boutique/internal/console"
	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/pkg/common"
)

// checkDemoProducts seeds a small demo catalog into an empty database so a
// fresh debug deployment has something to render.
func (a *Application) checkDemoProducts() {
	if !a.appConfig.System.Debug {
		return
	}

	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	defaultProducts := []domain.Product{
		{Code: "D-1001", Description: "Evening gown, emerald", Type: domain.ProductTypeSale, Size: "S-M", Price: 850000, Stock: 3},
		{Code: "D-1002", Description: "Cocktail dress, black", Type: domain.ProductTypeSale, Size: "M", Price: 620000, Stock: 5},
		{Code: "R-2001", Description: "Wedding dress, ivory", Type: domain.ProductTypeRent, Size: "S", Price: 120000, Stock: 1},
		{Code: "R-2002", Description: "Tuxedo, classic", Type: domain.ProductTypeRent, Size: "L", Price: 80000, Stock: 2},
	}

	for _, p := range defaultProducts {
		p.ID = common.UUID()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create demo product", zap.String("code", p.Code), zap.Error(err))
		} else {
			zap.L().Info("initialized demo product", zap.String("code", p.Code))
		}
	}
}

// checkShopSettings writes default console settings on first run.
func (a *Application) checkShopSettings() {
	var current console.ShopSettings
	if err := a.local.LoadShopSettings(&current); err != nil {
		zap.L().Error("failed to load shop settings", zap.Error(err))
		return
	}
	if current.ShopName != "" {
		return
	}
	current.ShopName = "Boutique"
	current.Currency = "UZS"
	if err := a.local.SaveShopSettings(&current); err != nil {
		zap.L().Error("failed to initialize shop settings", zap.Error(err))
		return
	}
	zap.L().Info("initialized default shop settings", zap.String("shop", current.ShopName))
}
