package message

// DelegatingProvider переадресует каждый вызов i18n- или default-провайдеру
// в зависимости от значения enabled() в момент вызова. Выбор не кэшируется.
type DelegatingProvider struct {
	i18n     Provider
	fallback Provider
	enabled  func() bool
}

// NewDelegatingProvider создаёт DelegatingProvider.
func NewDelegatingProvider(i18n, fallback Provider, enabled func() bool) *DelegatingProvider {
	return &DelegatingProvider{i18n: i18n, fallback: fallback, enabled: enabled}
}

func (d *DelegatingProvider) current() Provider {
	if d.enabled != nil && d.enabled() {
		return d.i18n
	}
	return d.fallback
}

func (d *DelegatingProvider) Entry(method, args string) (string, error) {
	return d.current().Entry(method, args)
}

func (d *DelegatingProvider) Exit(method string, result any) (string, error) {
	return d.current().Exit(method, result)
}

func (d *DelegatingProvider) Error(method, kind, text string) (string, error) {
	return d.current().Error(method, kind, text)
}
