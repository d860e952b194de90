package transfer

// PaymentEvent is the payment provider's webhook payload. The user is
// identified through notes on the payment entity.
type PaymentEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				Notes struct {
					UserID string `json:"userId"`
					Plan   string `json:"plan"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
