package models

// OrderStatus is the normalized document status shared by manufacturing
// and sales orders. The remote system encodes these as single letters.
type OrderStatus string

const (
	OrderStatusPlan       OrderStatus = "Plan"
	OrderStatusReleased   OrderStatus = "Released"
	OrderStatusInProgress OrderStatus = "InProgress"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusClosed     OrderStatus = "Closed"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusFailure = "failure"
)

const (
	SyncTriggeredManual = "manual"
	SyncTriggeredAPI    = "api"
)
