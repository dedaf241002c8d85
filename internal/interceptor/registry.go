package interceptor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/Kargones/logon/internal/pkg/apperrors"
)

// namePattern — допустимые имена компонентов и методов.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.$-]*$`)

// MethodOptions — параметры перехвата зарегистрированного метода.
type MethodOptions struct {
	// Mask включает маскирование аргументов.
	Mask bool
}

// Registry хранит таблицу перехватываемых методов: component.method → опции.
// Вызовы незарегистрированных методов перехватываются без маскирования.
type Registry struct {
	ic *Interceptor

	mu      sync.RWMutex
	methods map[string]MethodOptions
}

// NewRegistry создаёт пустую таблицу для ic.
func NewRegistry(ic *Interceptor) *Registry {
	return &Registry{ic: ic, methods: make(map[string]MethodOptions)}
}

func registryKey(component, method string) string {
	return component + "." + method
}

// Register добавляет или заменяет запись метода.
func (r *Registry) Register(component, method string, opts MethodOptions) error {
	for _, name := range []string{component, method} {
		if !namePattern.MatchString(name) {
			return apperrors.NewAppError(apperrors.ErrRegistryInvalid,
				fmt.Sprintf("недопустимое имя %q", name), nil)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[registryKey(component, method)] = opts
	return nil
}

// Lookup возвращает опции метода и признак регистрации.
func (r *Registry) Lookup(component, method string) (MethodOptions, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.methods[registryKey(component, method)]
	return opts, ok
}

// Methods возвращает зарегистрированные ключи component.method по алфавиту.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.methods))
	for k := range r.methods {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Invocation собирает Invocation с флагом маскирования из таблицы.
func (r *Registry) Invocation(component, method string, args ...any) Invocation {
	opts, _ := r.Lookup(component, method)
	return Invocation{Component: component, Method: method, Args: args, Mask: opts.Mask}
}

// Intercept перехватывает вызов зарегистрированного метода.
func (r *Registry) Intercept(ctx context.Context, component, method string, args []any, proceed ProceedFunc) (any, error) {
	return r.ic.Intercept(ctx, r.Invocation(component, method, args...), proceed)
}

// Interceptor возвращает перехватчик таблицы.
func (r *Registry) Interceptor() *Interceptor {
	return r.ic
}
