package dto

// SyncResponse resultado del pull sync de clientes.
type SyncResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
	Skipped int    `json:"skipped,omitempty"`
}
