package dto

// ReservationItem is one line of a batch reservation.
type ReservationItem struct {
	ProductID   int `json:"productId"`
	WarehouseID int `json:"warehouseId"`
	Quantity    int `json:"quantity"`
}

type ReserveRequest struct {
	Items []ReservationItem `json:"items"`
}

type ReleaseRequest struct {
	Fulfill bool   `json:"fulfill"`
	Actor   string `json:"actor"`
}

// ReleaseResult reports what a release call actually did; a second release
// for the same order finds no active holds and releases nothing.
type ReleaseResult struct {
	OrderID   string `json:"orderId"`
	Released  int    `json:"released"`
	Fulfilled bool   `json:"fulfilled"`
}
