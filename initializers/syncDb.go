package initializers

import (
	"github.com/tindora/tindora-api/models"
)

func SyncDatabase() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Zone{},
		&models.FeeSettings{},
		&models.Offer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.UserWallet{},
		&models.WalletTransaction{},
		&models.Settlement{},
		&models.RefundRequest{},
	)
}
