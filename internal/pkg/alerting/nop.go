package alerting

import "context"

// NopAlerter игнорирует все алерты. Используется при enabled=false.
type NopAlerter struct{}

// NewNopAlerter создаёт NopAlerter.
func NewNopAlerter() Alerter {
	return &NopAlerter{}
}

// Send ничего не делает.
func (n *NopAlerter) Send(_ context.Context, _ Alert) error {
	return nil
}
