package api

import "github.com/zappabad/stocksurge/internal/game"

type TradeRequest struct {
	Company   string `json:"company" binding:"required"`
	Quantity  int64  `json:"quantity"`
	Direction string `json:"direction" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StateMessage is pushed to websocket clients after every change.
type StateMessage struct {
	Type  string     `json:"type"`
	State game.State `json:"state"`
}
