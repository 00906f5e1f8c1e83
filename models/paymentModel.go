package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentLog struct {
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Payment is one settlement attempt for an order. A completed payment is
// never mutated again; status history accumulates in Logs.
type Payment struct {
	gorm.Model
	OrderID          uint                            `json:"orderId" gorm:"index"`
	Amount           int64                           `json:"amount"`
	Currency         string                          `json:"currency" gorm:"size:8"`
	Method           string                          `json:"method" gorm:"size:20"`
	Status           string                          `json:"status" gorm:"size:20"`
	GatewayOrderID   string                          `json:"gatewayOrderId" gorm:"size:64"`
	GatewayPaymentID string                          `json:"gatewayPaymentId" gorm:"size:64"`
	GatewaySignature string                          `json:"gatewaySignature" gorm:"size:128"`
	Logs             datatypes.JSONSlice[PaymentLog] `json:"logs"`
}

// AppendLog records a status transition on the payment's append-only log.
func (p *Payment) AppendLog(status, note string) {
	p.Logs = append(p.Logs, PaymentLog{Status: status, Note: note, At: time.Now()})
}
