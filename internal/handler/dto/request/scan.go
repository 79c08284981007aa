package request

type CreateScanRequest struct {
	Content   string  `json:"content" binding:"required"`
	DeviceID  *string `json:"device_id,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
}

type RecordActionRequest struct {
	UserAction string `json:"user_action" binding:"required,oneof=proceeded cancelled reported"`
	Outcome    string `json:"outcome" binding:"required"`
}
